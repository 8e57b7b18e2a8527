package content

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Hit is one search result.
type Hit struct {
	Number string
	Item   Number
}

// Search finds numbers matching query. An exact number comes first, then
// numbers whose key fuzzily matches, then numbers whose text does. An
// empty query lists every number.
func (p *Provider) Search(query string, limit int) []Hit {
	cat := p.catalog()
	query = strings.TrimSpace(query)

	var keys []string
	if query == "" {
		keys = cat.NumberKeys
	} else {
		if _, ok := cat.Numbers[query]; ok {
			keys = append(keys, query)
		}
		ranks := fuzzy.RankFindFold(query, cat.NumberKeys)
		sort.Stable(ranks)
		for _, r := range ranks {
			keys = append(keys, r.Target)
		}
		for _, k := range cat.NumberKeys {
			n := cat.Numbers[k]
			if fuzzy.MatchFold(query, n.Short) || fuzzy.MatchFold(query, n.Description) {
				keys = append(keys, k)
			}
		}
		keys = lo.Uniq(keys)
	}

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return lo.Map(keys, func(k string, _ int) Hit {
		return Hit{Number: k, Item: cat.Numbers[k]}
	})
}
