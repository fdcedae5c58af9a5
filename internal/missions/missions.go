// Package missions derives the daily output mission. The same learner gets
// the same mission all day, and a new one the next day.
package missions

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strconv"
	"time"
)

// VerbsPerMission is how many verbs a mission asks the learner to use.
const VerbsPerMission = 2

// Mission is the set of constraints for one day
type Mission struct {
	Date       string   `json:"date"`
	Verbs      []string `json:"verbs"`
	Grammar    string   `json:"grammar"`
	VerbTarget string   `json:"verb_target"`
}

// Seed hashes "<date>:<name>" and keeps the first eight hex digits.
func Seed(day time.Time, name string) int64 {
	sum := sha256.Sum256([]byte(day.Format("2006-01-02") + ":" + name))
	seed, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return seed
}

// ForDay picks VerbsPerMission distinct verbs, one grammar target and one
// verb target from the pools, deterministically for day and name.
func ForDay(day time.Time, name string, grammar, verbs []string) Mission {
	rnd := rand.New(rand.NewSource(Seed(day, name)))

	m := Mission{Date: day.Format("2006-01-02")}
	if len(verbs) > 0 {
		picked := rnd.Perm(len(verbs))
		n := VerbsPerMission
		if n > len(verbs) {
			n = len(verbs)
		}
		for _, i := range picked[:n] {
			m.Verbs = append(m.Verbs, verbs[i])
		}
		m.VerbTarget = verbs[rnd.Intn(len(verbs))]
	}
	if len(grammar) > 0 {
		m.Grammar = grammar[rnd.Intn(len(grammar))]
	}
	return m
}
