package riot

// AccountResponse is the account-v1 by-riot-id payload.
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchResponse is the match-v5 detail payload, trimmed to the fields the
// aggregation needs.
type MatchResponse struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameCreation int64         `json:"gameCreation"`
		GameDuration int           `json:"gameDuration"`
		GameMode     string        `json:"gameMode"`
		Participants []Participant `json:"participants"`
	} `json:"info"`
}

type Participant struct {
	PUUID                       string `json:"puuid"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	VisionScore                 int    `json:"visionScore"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	Role                        string `json:"role"`
	Lane                        string `json:"lane"`
	TeamPosition                string `json:"teamPosition"`
	ProfileIcon                 int    `json:"profileIcon"`
	SummonerLevel               int    `json:"summonerLevel"`
}
