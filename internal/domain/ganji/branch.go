package ganji

var (
	branchLabels = [BranchCount]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}
	branchHanja  = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	branchAnimals = [BranchCount]string{"쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양", "원숭이", "닭", "개", "돼지"}

	branchElements = [BranchCount]Element{
		Water, Earth, Wood, Wood, Earth, Fire,
		Fire, Earth, Metal, Metal, Earth, Water,
	}
)

// Named branch indices used by the month and hour cycles.
const (
	Rat   Branch = 0 // 子, first double-hour
	Tiger Branch = 2 // 寅, first solar month
)

// Branch is an earthly branch index in [0, 12).
type Branch int

// BranchOf normalises any integer onto the branch cycle.
func BranchOf(i int) Branch { return Branch(NormMod(i, BranchCount)) }

// Index returns the raw index.
func (b Branch) Index() int { return int(b) }

// Label returns the Korean label, e.g. "자".
func (b Branch) Label() string { return branchLabels[b.norm()] }

// Hanja returns the literary form, e.g. "子".
func (b Branch) Hanja() string { return branchHanja[b.norm()] }

// Element returns the element the branch belongs to.
func (b Branch) Element() Element { return branchElements[b.norm()] }

// Animal returns the zodiac animal (띠) in Korean, e.g. "쥐".
func (b Branch) Animal() string { return branchAnimals[b.norm()] }

func (b Branch) String() string { return b.Label() }

func (b Branch) norm() int { return NormMod(int(b), BranchCount) }
