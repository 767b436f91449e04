// Package stats turns a slice of match summaries into season insights. All
// functions are pure: same input, same output, no I/O.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riftrewind/rewind-server/internal/model"
)

// roleLabels maps Riot position identifiers to display labels.
var roleLabels = map[string]string{
	"TOP":     "Top",
	"JUNGLE":  "Jungle",
	"MIDDLE":  "Mid",
	"BOTTOM":  "ADC",
	"UTILITY": "Support",
}

func roleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return role
}

// BuildInsights aggregates the matches that fall inside the given calendar
// year. Matches outside the window are ignored.
func BuildInsights(matches []model.MatchSummary, year int) model.RewindInsights {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC).UnixMilli()

	filtered := make([]model.MatchSummary, 0, len(matches))
	for _, m := range matches {
		if m.GameCreation >= yearStart && m.GameCreation <= yearEnd {
			filtered = append(filtered, m)
		}
	}

	if len(filtered) == 0 {
		return emptyInsights()
	}

	return model.RewindInsights{
		Stats:            computeStats(filtered),
		TopChampions:     computeTopChampions(filtered),
		RoleDistribution: computeRoleDistribution(filtered),
		WinrateOverTime:  computeWinrateOverTime(filtered),
		Highlights:       computeHighlights(filtered),
		VisionScore:      computeVisionScore(filtered),
		ObjectiveScore:   computeObjectiveScore(filtered),
	}
}

func emptyInsights() model.RewindInsights {
	return model.RewindInsights{
		Stats:            model.RewindStats{MostPlayedRole: "None"},
		TopChampions:     []model.ChampionStats{},
		RoleDistribution: []model.RoleDistribution{},
		WinrateOverTime:  []model.WinrateDataPoint{},
		Highlights:       []model.MatchHighlight{},
	}
}

func computeStats(matches []model.MatchSummary) model.RewindStats {
	var wins, totalKills, totalDeaths, totalAssists, totalDuration int
	for _, m := range matches {
		if m.Win {
			wins++
		}
		totalKills += m.Kills
		totalDeaths += m.Deaths
		totalAssists += m.Assists
		totalDuration += m.GameDuration
	}

	winStreak, lossStreak := calculateStreaks(matches)

	avgKDA := float64(totalKills + totalAssists)
	if totalDeaths > 0 {
		avgKDA = float64(totalKills+totalAssists) / float64(totalDeaths)
	}

	return model.RewindStats{
		GamesPlayed:       len(matches),
		Wins:              wins,
		Losses:            len(matches) - wins,
		Winrate:           float64(wins) / float64(len(matches)),
		TotalKills:        totalKills,
		TotalDeaths:       totalDeaths,
		TotalAssists:      totalAssists,
		AvgKDA:            avgKDA,
		AvgGameDuration:   float64(totalDuration) / float64(len(matches)),
		LongestWinStreak:  winStreak,
		LongestLossStreak: lossStreak,
		MostPlayedRole:    roleLabel(mostPlayedRole(matches)),
	}
}

// calculateStreaks scans matches in chronological order. A win resets the
// loss counter and vice versa.
func calculateStreaks(matches []model.MatchSummary) (longestWin, longestLoss int) {
	sorted := make([]model.MatchSummary, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GameCreation < sorted[j].GameCreation
	})

	var currentWin, currentLoss int
	for _, m := range sorted {
		if m.Win {
			currentWin++
			currentLoss = 0
			if currentWin > longestWin {
				longestWin = currentWin
			}
		} else {
			currentLoss++
			currentWin = 0
			if currentLoss > longestLoss {
				longestLoss = currentLoss
			}
		}
	}
	return longestWin, longestLoss
}

func positionOf(m model.MatchSummary) string {
	switch {
	case m.TeamPosition != "":
		return m.TeamPosition
	case m.Role != "":
		return m.Role
	default:
		return "NONE"
	}
}

func mostPlayedRole(matches []model.MatchSummary) string {
	counts := make(map[string]int)
	order := make([]string, 0, 5)
	for _, m := range matches {
		role := positionOf(m)
		if _, seen := counts[role]; !seen {
			order = append(order, role)
		}
		counts[role]++
	}

	best := "NONE"
	bestCount := -1
	for _, role := range order {
		if counts[role] > bestCount {
			best = role
			bestCount = counts[role]
		}
	}
	return best
}

func computeTopChampions(matches []model.MatchSummary) []model.ChampionStats {
	type champAgg struct {
		id      int
		name    string
		games   int
		wins    int
		kills   int
		deaths  int
		assists int
		cs      int
		damage  int
	}

	aggs := make(map[int]*champAgg)
	order := make([]int, 0)
	for _, m := range matches {
		agg, ok := aggs[m.ChampionID]
		if !ok {
			agg = &champAgg{id: m.ChampionID, name: m.ChampionName}
			aggs[m.ChampionID] = agg
			order = append(order, m.ChampionID)
		}
		agg.games++
		if m.Win {
			agg.wins++
		}
		agg.kills += m.Kills
		agg.deaths += m.Deaths
		agg.assists += m.Assists
		agg.cs += m.CS
		agg.damage += m.DamageDealt
	}

	result := make([]model.ChampionStats, 0, len(order))
	for _, id := range order {
		a := aggs[id]
		avgKDA := float64(a.kills + a.assists)
		if a.deaths > 0 {
			avgKDA = float64(a.kills+a.assists) / float64(a.deaths)
		}
		result = append(result, model.ChampionStats{
			ChampionID:   a.id,
			ChampionName: a.name,
			GamesPlayed:  a.games,
			Wins:         a.wins,
			Losses:       a.games - a.wins,
			Winrate:      float64(a.wins) / float64(a.games),
			AvgKDA:       avgKDA,
			AvgCS:        float64(a.cs) / float64(a.games),
			AvgDamage:    float64(a.damage) / float64(a.games),
		})
	}

	// Stable sort keeps first-encountered order for equal game counts.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GamesPlayed > result[j].GamesPlayed
	})

	if len(result) > 10 {
		result = result[:10]
	}
	return result
}

func computeRoleDistribution(matches []model.MatchSummary) []model.RoleDistribution {
	counts := make(map[string]int)
	order := make([]string, 0, 5)
	for _, m := range matches {
		role := positionOf(m)
		if _, seen := counts[role]; !seen {
			order = append(order, role)
		}
		counts[role]++
	}

	total := len(matches)
	result := make([]model.RoleDistribution, 0, len(order))
	for _, role := range order {
		result = append(result, model.RoleDistribution{
			Role:       roleLabel(role),
			Games:      counts[role],
			Percentage: float64(counts[role]) / float64(total) * 100,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Games > result[j].Games
	})
	return result
}

func computeWinrateOverTime(matches []model.MatchSummary) []model.WinrateDataPoint {
	type monthAgg struct {
		wins  int
		total int
	}

	monthly := make(map[string]*monthAgg)
	for _, m := range matches {
		t := time.UnixMilli(m.GameCreation).UTC()
		key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		agg, ok := monthly[key]
		if !ok {
			agg = &monthAgg{}
			monthly[key] = agg
		}
		agg.total++
		if m.Win {
			agg.wins++
		}
	}

	keys := make([]string, 0, len(monthly))
	for key := range monthly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]model.WinrateDataPoint, 0, len(keys))
	for _, key := range keys {
		agg := monthly[key]
		t, _ := time.Parse("2006-01", key)
		result = append(result, model.WinrateDataPoint{
			Period:  t.Format("Jan"),
			Winrate: float64(agg.wins) / float64(agg.total),
			Games:   agg.total,
		})
	}
	return result
}

func computeHighlights(matches []model.MatchSummary) []model.MatchHighlight {
	highlights := make([]model.MatchHighlight, 0, 4)

	// Best: highest KDA among wins.
	var best *model.MatchSummary
	for i := range matches {
		m := &matches[i]
		if !m.Win {
			continue
		}
		if best == nil || m.KDA > best.KDA {
			best = m
		}
	}
	if best != nil {
		highlights = append(highlights, model.MatchHighlight{
			MatchID: best.MatchID,
			Type:    model.HighlightBestMatch,
			Title:   "Best Performance",
			Description: fmt.Sprintf("An incredible %d/%d/%d game on %s",
				best.Kills, best.Deaths, best.Assists, best.ChampionName),
			ChampionName: best.ChampionName,
			ChampionID:   best.ChampionID,
			Stats:        highlightStats(best),
		})
	}

	// Worst: lowest KDA overall.
	worst := &matches[0]
	for i := range matches {
		if matches[i].KDA < worst.KDA {
			worst = &matches[i]
		}
	}
	highlights = append(highlights, model.MatchHighlight{
		MatchID: worst.MatchID,
		Type:    model.HighlightWorstMatch,
		Title:   "Rough Game",
		Description: fmt.Sprintf("A tough %d/%d/%d game, but every loss is a lesson",
			worst.Kills, worst.Deaths, worst.Assists),
		ChampionName: worst.ChampionName,
		ChampionID:   worst.ChampionID,
		Stats:        highlightStats(worst),
	})

	// Longest game.
	longest := &matches[0]
	for i := range matches {
		if matches[i].GameDuration > longest.GameDuration {
			longest = &matches[i]
		}
	}
	highlights = append(highlights, model.MatchHighlight{
		MatchID: longest.MatchID,
		Type:    model.HighlightLongestGame,
		Title:   "Marathon Match",
		Description: fmt.Sprintf("A %s epic battle as %s",
			formatDuration(longest.GameDuration), longest.ChampionName),
		ChampionName: longest.ChampionName,
		ChampionID:   longest.ChampionID,
		Stats:        highlightStats(longest),
	})

	// Comeback: a win fought through at least 3 deaths, highest kill
	// participation first.
	var comeback *model.MatchSummary
	for i := range matches {
		m := &matches[i]
		if !m.Win || m.Deaths < 3 {
			continue
		}
		if comeback == nil || m.Kills+m.Assists > comeback.Kills+comeback.Assists {
			comeback = m
		}
	}
	if comeback != nil {
		highlights = append(highlights, model.MatchHighlight{
			MatchID: comeback.MatchID,
			Type:    model.HighlightBiggestComeback,
			Title:   "Clutch Comeback",
			Description: fmt.Sprintf("Fought through adversity to secure victory as %s",
				comeback.ChampionName),
			ChampionName: comeback.ChampionName,
			ChampionID:   comeback.ChampionID,
			Stats:        highlightStats(comeback),
		})
	}

	if len(highlights) > 4 {
		highlights = highlights[:4]
	}
	return highlights
}

func highlightStats(m *model.MatchSummary) model.HighlightStats {
	result := "Defeat"
	if m.Win {
		result = "Victory"
	}
	return model.HighlightStats{
		KDA:      fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
		Duration: formatDuration(m.GameDuration),
		Result:   result,
	}
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// computeVisionScore converts average vision per minute to a 0-100 score,
// with 1.0 vision/min mapping to 100.
func computeVisionScore(matches []model.MatchSummary) int {
	var totalPerMin float64
	for _, m := range matches {
		mins := float64(m.GameDuration) / 60
		if mins > 0 {
			totalPerMin += float64(m.VisionScore) / mins
		}
	}
	avg := totalPerMin / float64(len(matches))
	return int(math.Min(100, math.Round(avg*100)))
}

// computeObjectiveScore is a proxy built from winrate plus a damage bonus;
// the match API does not expose direct objective participation.
func computeObjectiveScore(matches []model.MatchSummary) int {
	var wins int
	var totalDamage float64
	for _, m := range matches {
		if m.Win {
			wins++
		}
		totalDamage += float64(m.DamageDealt)
	}
	base := float64(wins) / float64(len(matches)) * 100
	bonus := math.Min(20, totalDamage/float64(len(matches))/2000)
	return int(math.Min(100, math.Round(base+bonus)))
}
