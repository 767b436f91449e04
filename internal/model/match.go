package model

// PlayerInfo is a resolved Riot identity.
type PlayerInfo struct {
	PUUID         string `json:"puuid"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	Region        string `json:"region"`
	ProfileIconID int    `json:"profileIconId,omitempty"`
	SummonerLevel int    `json:"summonerLevel,omitempty"`
}

// RiotID formats the human-readable handle.
func (p *PlayerInfo) RiotID() string {
	return p.GameName + "#" + p.TagLine
}

// MatchSummary is one completed match from the tracked player's point of
// view. Immutable once fetched.
type MatchSummary struct {
	MatchID      string  `json:"matchId"`
	GameCreation int64   `json:"gameCreation"` // unix milliseconds
	GameDuration int     `json:"gameDuration"` // seconds
	GameMode     string  `json:"gameMode"`
	ChampionID   int     `json:"championId"`
	ChampionName string  `json:"championName"`
	Win          bool    `json:"win"`
	Kills        int     `json:"kills"`
	Deaths       int     `json:"deaths"`
	Assists      int     `json:"assists"`
	KDA          float64 `json:"kda"`
	CS           int     `json:"cs"`
	CSPerMin     float64 `json:"csPerMin"`
	VisionScore  int     `json:"visionScore"`
	GoldEarned   int     `json:"goldEarned"`
	DamageDealt  int     `json:"damageDealt"`
	Role         string  `json:"role"`
	Lane         string  `json:"lane"`
	TeamPosition string  `json:"teamPosition"`
}
