package saju

import (
	"encoding/json"
	"fmt"

	"github.com/okian/saju/internal/domain/ganji"
)

// Pillar is one stem/branch pair. It is a plain value; copies never alias.
type Pillar struct {
	Stem   ganji.Stem
	Branch ganji.Branch
}

// NewPillar normalises both indices onto their cycles.
func NewPillar(stemIndex, branchIndex int) Pillar {
	return Pillar{Stem: ganji.StemOf(stemIndex), Branch: ganji.BranchOf(branchIndex)}
}

// String returns the two-syllable Korean form, e.g. "갑진".
func (p Pillar) String() string { return p.Stem.Label() + p.Branch.Label() }

// Hanja returns the literary form, e.g. "甲辰".
func (p Pillar) Hanja() string { return p.Stem.Hanja() + p.Branch.Hanja() }

type pillarJSON struct {
	Stem        string `json:"stem"`
	Branch      string `json:"branch"`
	StemHanja   string `json:"stemHanja"`
	BranchHanja string `json:"branchHanja"`
	StemIndex   int    `json:"stemIndex"`
	BranchIndex int    `json:"branchIndex"`
}

// MarshalJSON emits labels and raw indices in the stored chart layout.
func (p Pillar) MarshalJSON() ([]byte, error) {
	return json.Marshal(pillarJSON{
		Stem:        p.Stem.Label(),
		Branch:      p.Branch.Label(),
		StemHanja:   p.Stem.Hanja(),
		BranchHanja: p.Branch.Hanja(),
		StemIndex:   p.Stem.Index(),
		BranchIndex: p.Branch.Index(),
	})
}

// UnmarshalJSON rebuilds the pillar from its indices and checks the labels agree.
func (p *Pillar) UnmarshalJSON(b []byte) error {
	var raw pillarJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.StemIndex < 0 || raw.StemIndex >= ganji.StemCount ||
		raw.BranchIndex < 0 || raw.BranchIndex >= ganji.BranchCount {
		return fmt.Errorf("pillar index out of range: stem=%d branch=%d", raw.StemIndex, raw.BranchIndex)
	}
	v := NewPillar(raw.StemIndex, raw.BranchIndex)
	if raw.Stem != "" && raw.Stem != v.Stem.Label() {
		return fmt.Errorf("pillar stem %q does not match index %d", raw.Stem, raw.StemIndex)
	}
	if raw.Branch != "" && raw.Branch != v.Branch.Label() {
		return fmt.Errorf("pillar branch %q does not match index %d", raw.Branch, raw.BranchIndex)
	}
	*p = v
	return nil
}
