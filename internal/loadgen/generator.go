package loadgen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/saju/internal/domain/model"
)

// Generate returns n subjects with unique names and random birth data.
// Dates and times depend only on seed; about a quarter have no birth time.
func Generate(n int, seed uint64, minYear, maxYear int) []model.Subject {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]model.Subject, n)
	for i := range out {
		year := minYear + rng.IntN(maxYear-minYear+1)
		month := time.Month(1 + rng.IntN(12))
		day := 1 + rng.IntN(daysIn(year, month))

		birthTime := ""
		if rng.IntN(4) != 0 {
			birthTime = fmt.Sprintf("%02d:%02d", rng.IntN(24), rng.IntN(60))
		}

		out[i] = model.Subject{
			Name:      "loadgen-" + uuid.NewString(),
			BirthDate: fmt.Sprintf("%04d-%02d-%02d", year, month, day),
			BirthTime: birthTime,
			Category:  "loadgen",
		}
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
