package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/models"
)

// RankBy selects the ordering of TopEquipment.
type RankBy string

const (
	RankByCount RankBy = "count"
	RankByCost  RankBy = "cost"
)

// ParseRankBy accepts "count" or "cost" (case-insensitive); empty means count.
func ParseRankBy(s string) (RankBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RankByCount):
		return RankByCount, nil
	case string(RankByCost):
		return RankByCost, nil
	}
	return "", fmt.Errorf("unknown ranking %q (want count or cost)", s)
}

// EquipmentRank is one row of an equipment ranking.
type EquipmentRank struct {
	Equipment string  `json:"equipment" msgpack:"equipment"`
	Count     int     `json:"count" msgpack:"count"`
	TotalCost float64 `json:"totalCost" msgpack:"totalCost"`
	MTBF      float64 `json:"mtbf" msgpack:"mtbf"`
}

// TopEquipment ranks equipment by work order count or total cost, descending,
// with ties broken by equipment id. A limit <= 0 returns every equipment.
func TopEquipment(stats map[string]*models.EquipmentStats, by RankBy, limit int) []EquipmentRank {
	ranks := make([]EquipmentRank, 0, len(stats))
	for id, s := range stats {
		ranks = append(ranks, EquipmentRank{
			Equipment: id,
			Count:     s.Count,
			TotalCost: s.TotalCost,
			MTBF:      s.MTBF,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		switch by {
		case RankByCost:
			if a.TotalCost != b.TotalCost {
				return a.TotalCost > b.TotalCost
			}
		default:
			if a.Count != b.Count {
				return a.Count > b.Count
			}
		}
		return a.Equipment < b.Equipment
	})

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// EquipmentNames returns the distinct equipment ids of orders, sorted.
func EquipmentNames(orders []models.WorkOrder) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, wo := range orders {
		if _, ok := seen[wo.Equipment]; ok {
			continue
		}
		seen[wo.Equipment] = struct{}{}
		names = append(names, wo.Equipment)
	}
	sort.Strings(names)
	return names
}

// FormatHours renders a duration in hours in the largest sensible unit.
func FormatHours(hours float64) string {
	switch {
	case hours < 24:
		return fmt.Sprintf("%.1f hours", hours)
	case hours < HoursPerYear:
		return fmt.Sprintf("%.1f days", hours/24)
	default:
		return fmt.Sprintf("%.1f years", hours/HoursPerYear)
	}
}
