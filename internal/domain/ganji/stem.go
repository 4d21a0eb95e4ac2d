package ganji

var (
	stemLabels = [StemCount]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}
	stemHanja  = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

	// Stems pair up per element: 갑을 wood, 병정 fire, 무기 earth, 경신 metal, 임계 water.
	stemElements = [StemCount]Element{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}
)

// Stem is a heavenly stem index in [0, 10).
type Stem int

// StemOf normalises any integer onto the stem cycle.
func StemOf(i int) Stem { return Stem(NormMod(i, StemCount)) }

// Index returns the raw index.
func (s Stem) Index() int { return int(s) }

// Label returns the Korean label, e.g. "갑".
func (s Stem) Label() string { return stemLabels[s.norm()] }

// Hanja returns the literary form, e.g. "甲".
func (s Stem) Hanja() string { return stemHanja[s.norm()] }

// Element returns the element the stem belongs to.
func (s Stem) Element() Element { return stemElements[s.norm()] }

// Yang reports the polarity: even stems are yang, odd stems yin.
func (s Stem) Yang() bool { return s.norm()%2 == 0 }

func (s Stem) String() string { return s.Label() }

func (s Stem) norm() int { return NormMod(int(s), StemCount) }
