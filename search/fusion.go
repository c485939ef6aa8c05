// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"sort"

	"github.com/poiesic/quaero/core"
)

// Weights for blending seed relevance with graph proximity. Proximity
// dominates so that documents clustered around a strong seed outrank
// marginal direct matches.
const (
	graphFTSWeight      = 0.3
	graphDistanceWeight = 0.7
)

// FromFTS converts raw full-text matches into result records. The
// full-text score carries straight through as the final score.
func FromFTS(matches []core.FTSMatch) []core.ResultRecord {
	results := make([]core.ResultRecord, 0, len(matches))
	for _, m := range matches {
		results = append(results, core.ResultRecord{
			GID:     m.GID,
			PageNo:  m.PageNo,
			Title:   m.Title,
			Snippet: m.Snippet,
			Scores: core.ScoreVector{
				FTS:   m.Score,
				Final: m.Score,
			},
		})
	}
	return results
}

// FuseGraph blends full-text seed scores with graph proximity. Each
// document in the neighborhood scores 1/(distance+1), so seeds themselves
// score 1.0 and the score decays with every hop. Documents reached by the
// graph but absent from the seed set contribute a zero full-text
// component. The fused list is ordered by final score descending, with
// the GID breaking ties.
func FuseGraph(seeds []core.FTSMatch, hood *core.GraphNeighborhood) []core.ResultRecord {
	if hood == nil || len(hood.Nodes) == 0 {
		return []core.ResultRecord{}
	}

	ftsScores := make(map[string]float64, len(seeds))
	snippets := make(map[string]string, len(seeds))
	for _, s := range seeds {
		ftsScores[s.GID] = s.Score
		snippets[s.GID] = s.Snippet
	}

	results := make([]core.ResultRecord, 0, len(hood.Nodes))
	for _, node := range hood.Nodes {
		distance := hood.Distances[node.GID]
		graphScore := 1.0 / float64(distance+1)
		ftsScore := ftsScores[node.GID]
		results = append(results, core.ResultRecord{
			GID:     node.GID,
			PageNo:  node.PageNo,
			Title:   node.Title,
			Snippet: snippets[node.GID],
			Scores: core.ScoreVector{
				FTS:   ftsScore,
				Graph: graphScore,
				Final: ftsScore*graphFTSWeight + graphScore*graphDistanceWeight,
			},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Scores.Final != results[j].Scores.Final {
			return results[i].Scores.Final > results[j].Scores.Final
		}
		return results[i].GID < results[j].GID
	})
	return results
}
