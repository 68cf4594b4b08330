// Package atlas provides read-only lookups over the static anatomy
// reference data. The data file is not owned by the app: it is loaded
// once, cached for the process lifetime and never written.
package atlas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

var (
	ErrRegionNotFound    = errors.New("region not found")
	ErrSubregionNotFound = errors.New("subregion not found")
)

// Subregion is one entry within an anatomical region.
type Subregion struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	KeyStructures     []string `json:"keyStructures"`
	ClinicalRelevance string   `json:"clinicalRelevance"`
	RelatedProcedures []string `json:"relatedProcedures"`
}

// Region is a top-level anatomical region with its subregions.
type Region struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Icon       string      `json:"icon"`
	Subregions []Subregion `json:"subregions"`
}

// RegionSummary is the list-view shape of a region.
type RegionSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	SubregionCount int    `json:"subregionCount"`
}

// SubregionDetail is a subregion with its parent region's name.
type SubregionDetail struct {
	Subregion
	RegionName string `json:"regionName"`
}

// SearchResult is one weighted match from Search, ordered by score.
type SearchResult struct {
	RegionID      string `json:"regionId"`
	RegionName    string `json:"regionName"`
	SubregionID   string `json:"subregionId"`
	SubregionName string `json:"subregionName"`
	MatchScore    int    `json:"matchScore"`
}

type atlasData struct {
	Regions []Region `json:"regions"`
}

// Reader serves lookups over the cached atlas document.
type Reader struct {
	path string

	once sync.Once
	data *atlasData
	err  error
}

// NewReader creates a reader for the atlas file at path. The file is
// read on first use, not here.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) atlas() (*atlasData, error) {
	r.once.Do(func() {
		raw, err := os.ReadFile(r.path)
		if err != nil {
			r.err = fmt.Errorf("read atlas file %s: %w", r.path, err)
			return
		}
		var data atlasData
		if err := json.Unmarshal(raw, &data); err != nil {
			r.err = fmt.Errorf("parse atlas file %s: %w", r.path, err)
			return
		}
		r.data = &data
	})
	return r.data, r.err
}

// Regions returns summaries of every region.
func (r *Reader) Regions() ([]RegionSummary, error) {
	data, err := r.atlas()
	if err != nil {
		return nil, err
	}
	summaries := make([]RegionSummary, 0, len(data.Regions))
	for _, region := range data.Regions {
		summaries = append(summaries, RegionSummary{
			ID:             region.ID,
			Name:           region.Name,
			Icon:           region.Icon,
			SubregionCount: len(region.Subregions),
		})
	}
	return summaries, nil
}

// Region returns one region with its full subregion list.
func (r *Reader) Region(regionID string) (*Region, error) {
	data, err := r.atlas()
	if err != nil {
		return nil, err
	}
	for i := range data.Regions {
		if data.Regions[i].ID == regionID {
			return &data.Regions[i], nil
		}
	}
	return nil, ErrRegionNotFound
}

// Subregion returns one subregion annotated with its region's name.
func (r *Reader) Subregion(regionID, subregionID string) (*SubregionDetail, error) {
	region, err := r.Region(regionID)
	if err != nil {
		return nil, err
	}
	for _, sub := range region.Subregions {
		if sub.ID == subregionID {
			return &SubregionDetail{Subregion: sub, RegionName: region.Name}, nil
		}
	}
	return nil, ErrSubregionNotFound
}

// Search runs a weighted case-insensitive substring search across all
// subregions. Name matches weigh 3, description and key structures 2,
// clinical relevance 1; results come back sorted by score, highest
// first. An empty query returns an empty result set.
func (r *Reader) Search(query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}
	data, err := r.atlas()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := []SearchResult{}
	for _, region := range data.Regions {
		for _, sub := range region.Subregions {
			score := matchScore(sub, needle)
			if score == 0 {
				continue
			}
			results = append(results, SearchResult{
				RegionID:      region.ID,
				RegionName:    region.Name,
				SubregionID:   sub.ID,
				SubregionName: sub.Name,
				MatchScore:    score,
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results, nil
}

func matchScore(sub Subregion, needle string) int {
	score := 0
	if strings.Contains(strings.ToLower(sub.Name), needle) {
		score += 3
	}
	if strings.Contains(strings.ToLower(sub.Description), needle) {
		score += 2
	}
	for _, structure := range sub.KeyStructures {
		if strings.Contains(strings.ToLower(structure), needle) {
			score += 2
			break
		}
	}
	if strings.Contains(strings.ToLower(sub.ClinicalRelevance), needle) {
		score++
	}
	return score
}
