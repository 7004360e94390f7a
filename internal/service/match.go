package service

import (
	"strings"

	"catalog_go/internal/model"
)

// BoardTagRef Board-tag identity used for matching: normalized slug plus
// curated display name.
type BoardTagRef struct {
	Slug string
	Name string
}

// TagsEquivalent 判断 freeform 标签串与版面标签是否等价
// Equivalent iff, after case-folding, the asset tag equals the board tag's
// slug OR its name. This is the single equivalence rule used everywhere a
// freeform tag list is reconciled against the curated vocabulary.
func TagsEquivalent(assetTag string, ref BoardTagRef) bool {
	return strings.EqualFold(assetTag, ref.Slug) || strings.EqualFold(assetTag, ref.Name)
}

// CountMatchesPerBoardTag 统计每个版面标签匹配的资源数
// Returns slug -> number of assets whose freeform tag list contains at
// least one equivalent entry. Each asset's list is folded into a lookup
// set once, so the scan is O(assets × boardTags) instead of the naive
// per-pair comparison; the equivalence semantics are unchanged.
func CountMatchesPerBoardTag(assetTagLists [][]string, boardTags []BoardTagRef) map[string]int {
	counts := make(map[string]int, len(boardTags))
	for _, ref := range boardTags {
		counts[ref.Slug] = 0
	}

	for _, tags := range assetTagLists {
		folded := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			folded[strings.ToLower(t)] = struct{}{}
		}
		for _, ref := range boardTags {
			if _, ok := folded[strings.ToLower(ref.Slug)]; ok {
				counts[ref.Slug]++
				continue
			}
			if _, ok := folded[strings.ToLower(ref.Name)]; ok {
				counts[ref.Slug]++
			}
		}
	}
	return counts
}

// MatchTagIDs 将资源的 freeform 标签串解析为标签 ID 集合
// Used by the asset-tag index resync: every vocabulary tag whose slug or
// name is equivalent to some freeform entry is matched. Order follows the
// vocabulary, duplicates are collapsed.
func MatchTagIDs(assetTags []string, vocabulary []*model.Tag) []int64 {
	if len(assetTags) == 0 {
		return nil
	}
	folded := make(map[string]struct{}, len(assetTags))
	for _, t := range assetTags {
		folded[strings.ToLower(t)] = struct{}{}
	}

	var ids []int64
	for _, tag := range vocabulary {
		if _, ok := folded[strings.ToLower(tag.Slug)]; ok {
			ids = append(ids, tag.TagID)
			continue
		}
		if _, ok := folded[strings.ToLower(tag.Name)]; ok {
			ids = append(ids, tag.TagID)
		}
	}
	return ids
}
