package types

import "strings"

// Metadata describes where a document sits in the curriculum. Region and
// CurriculumType are derived from Board, not supplied by the uploader.
type Metadata struct {
	Subject        string   `json:"subject"`
	Class          string   `json:"class"`
	Chapter        string   `json:"chapter"`
	Board          string   `json:"board"`
	Topics         []string `json:"topics,omitempty"`
	Region         string   `json:"region,omitempty"`
	CurriculumType string   `json:"curriculum_type,omitempty"`
}

// WithDerived returns a copy with Region and CurriculumType filled in from Board.
func (m Metadata) WithDerived() Metadata {
	m.Region = RegionForBoard(m.Board)
	m.CurriculumType = CurriculumTypeForBoard(m.Board)
	return m
}

var stateBoardRegions = map[string]string{
	"maharashtra":   "Maharashtra",
	"karnataka":     "Karnataka",
	"tamil nadu":    "Tamil Nadu",
	"kerala":        "Kerala",
	"gujarat":       "Gujarat",
	"rajasthan":     "Rajasthan",
	"west bengal":   "West Bengal",
	"uttar pradesh": "Uttar Pradesh",
	"delhi":         "Delhi",
}

// RegionForBoard maps an educational board name to its region. State boards
// map to their state, national boards (CBSE, NCERT, ICSE) to "National".
func RegionForBoard(board string) string {
	boardLower := strings.ToLower(board)

	for state, region := range stateBoardRegions {
		if strings.Contains(boardLower, state) {
			return region
		}
	}

	for _, term := range []string{"cbse", "ncert", "icse"} {
		if strings.Contains(boardLower, term) {
			return "National"
		}
	}

	return "Unknown"
}

// CurriculumTypeForBoard classifies a board as National, State, International
// or Other.
func CurriculumTypeForBoard(board string) string {
	boardLower := strings.ToLower(board)

	switch {
	case strings.Contains(boardLower, "cbse"),
		strings.Contains(boardLower, "ncert"),
		strings.Contains(boardLower, "icse"):
		return "National"
	case strings.Contains(boardLower, "state"):
		return "State"
	case strings.Contains(boardLower, "international"),
		strings.Contains(boardLower, "ib"):
		return "International"
	default:
		return "Other"
	}
}
