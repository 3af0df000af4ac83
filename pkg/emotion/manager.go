package emotion

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Event is one raw emotion event handed over by the extraction step.
// Label and Strength are untrusted strings; unknown labels are dropped
// and unknown strengths fall back to the default magnitude.
type Event struct {
	Target   string `json:"target"`
	Label    string `json:"label"`
	Strength string `json:"strength"`
}

// Manager holds the live per-target emotion records and the aggregate
// mood, and applies events, opposite-cancellation, and time decay.
//
// The manager is not safe for concurrent use: UpdateEmotion and
// ApplyDecay read-then-write the record set across multiple records.
// Hosts driving it from more than one goroutine must serialize access
// with their own mutex.
type Manager struct {
	records    []*Record
	globalMood map[BasicEmotion]float64
	dirty      bool
	clock      clockwork.Clock
	loc        *time.Location
	lang       Lang
}

// NewManager creates an empty manager. A nil location falls back to
// time.Local and a nil clock to the real clock.
func NewManager(lang Lang, loc *time.Location, clock clockwork.Clock) *Manager {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	mood := make(map[BasicEmotion]float64, len(AllEmotions))
	for _, e := range AllEmotions {
		mood[e] = 0.0
	}
	return &Manager{
		globalMood: mood,
		clock:      clock,
		loc:        loc,
		lang:       lang,
	}
}

func (m *Manager) now() time.Time {
	return m.clock.Now().In(m.loc)
}

func (m *Manager) find(target string, label BasicEmotion) *Record {
	for _, r := range m.records {
		if r.Target == target && r.Label == label {
			return r
		}
	}
	return nil
}

func (m *Manager) remove(rec *Record) {
	for i, r := range m.records {
		if r == rec {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return
		}
	}
}

// UpdateEmotion applies one emotion event. An existing opposite record
// for the same target is eroded first; only the surplus beyond full
// cancellation takes hold in the event's own direction.
func (m *Manager) UpdateEmotion(label BasicEmotion, target string, strength string) {
	magnitude := EventMagnitude(strings.ToLower(strength))
	now := m.now()

	same := m.find(target, label)
	opposite := m.find(target, label.Opposite())

	switch {
	case opposite != nil:
		remaining := opposite.Intensity - magnitude*opposite.Amplification
		if remaining <= MinIntensity {
			surplus := -remaining
			m.remove(opposite)
			if surplus > 0 {
				if same != nil {
					same.Intensity = min(same.Intensity+surplus*same.Amplification, 1.0)
					same.LastUpdated = now
				} else {
					m.append(label, target, min(surplus, 1.0), now)
				}
			}
		} else {
			opposite.Intensity = remaining
			opposite.LastUpdated = now
		}
	case same != nil:
		same.Intensity = min(same.Intensity+magnitude*same.Amplification, 1.0)
		same.LastUpdated = now
	default:
		m.append(label, target, magnitude, now)
	}

	m.dirty = true
}

func (m *Manager) append(label BasicEmotion, target string, intensity float64, now time.Time) {
	rec, err := NewRecord(label, target, intensity, DefaultDecayRate, DefaultAmplification, now)
	if err != nil {
		// Defaults are always in range; reaching this is a bug.
		panic(err)
	}
	m.records = append(m.records, rec)
}

// UpdateFromLLM applies a batch of raw events. Entries with unknown
// labels are skipped silently; the global mood is recomputed once at
// the end rather than per event.
func (m *Manager) UpdateFromLLM(events []Event) {
	for _, ev := range events {
		label, ok := ParseBasicEmotion(strings.ToLower(strings.TrimSpace(ev.Label)))
		if !ok {
			continue
		}
		target := strings.TrimSpace(ev.Target)
		strength := ev.Strength
		if strength == "" {
			strength = "medium"
		}
		m.UpdateEmotion(label, target, strength)
	}
	m.commit()
}

// ApplyDecay reduces every record's intensity by decayRate per elapsed
// unit of unitSeconds and drops records that reach zero. It is
// idempotent with respect to elapsed time: calling it twice with no
// time passing changes nothing further.
func (m *Manager) ApplyDecay(unitSeconds int) {
	if unitSeconds <= 0 {
		unitSeconds = 60
	}
	now := m.now()
	kept := m.records[:0]
	for _, r := range m.records {
		elapsed := now.Sub(r.LastUpdated).Seconds()
		units := elapsed / float64(unitSeconds)
		r.Intensity = max(0, r.Intensity-r.DecayRate*units)
		r.LastUpdated = now
		if r.Intensity > MinIntensity {
			kept = append(kept, r)
		}
	}
	m.records = kept
	m.dirty = true
	m.commit()
}

// commit recomputes the global mood if any update left it stale.
// Every read path goes through here, so callers never observe a stale
// aggregate.
func (m *Manager) commit() {
	if !m.dirty {
		return
	}
	sums := make(map[BasicEmotion]float64, len(AllEmotions))
	counts := make(map[BasicEmotion]int, len(AllEmotions))
	for _, r := range m.records {
		sums[r.Label] += r.Intensity
		counts[r.Label]++
	}
	for _, e := range AllEmotions {
		if counts[e] > 0 {
			m.globalMood[e] = sums[e] / float64(counts[e])
		} else {
			m.globalMood[e] = 0.0
		}
	}
	m.dirty = false
}

// DeriveCompound returns the named compound emotion for the records of
// a single target, if their distinct labels exactly match one of the
// defined pairs. Single labels and sets of three or more never match.
func (m *Manager) DeriveCompound(records []*Record) (Compound, bool) {
	distinct := make([]BasicEmotion, 0, 2)
	for _, r := range records {
		seen := false
		for _, l := range distinct {
			if l == r.Label {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, r.Label)
		}
	}
	if len(distinct) != 2 {
		return Compound{}, false
	}
	return CompoundForPair(distinct[0], distinct[1])
}

// render strings per language; the engine's numbers stay language-free.
type renderStrings struct {
	moodHeader    string
	targetHeader  string
	neutral       string
	compoundLabel string
	sep           string
	parenOpen     string
	parenClose    string
}

var renderTexts = map[Lang]renderStrings{
	LangEN: {"# Overall Mood", "# Emotions by Target", "neutral", "compound: ", ", ", " (", ")"},
	LangJA: {"# 基本感情", "# 対象毎の感情", "ニュートラル", "複合感情: ", "、", "(", ")"},
}

func (m *Manager) formatPart(label BasicEmotion, intensity float64, txt renderStrings) string {
	cat := CategoryFor(label, intensity)
	if alt, ok := AlternateName(label, cat, m.lang); ok {
		return fmt.Sprintf("%s%s%s%s: %.2f", label.Name(m.lang), txt.parenOpen, alt, txt.parenClose, intensity)
	}
	return fmt.Sprintf("%s: %.2f", label.Name(m.lang), intensity)
}

// GenerateOutput renders the aggregate mood and the per-target feelings
// as the text block interpolated into the system prompt. Intensities
// outside the basic band are annotated with their alternate names so
// the prompt stays stable under small numeric drift.
func (m *Manager) GenerateOutput() string {
	m.commit()
	txt := renderTexts[m.lang]

	var lines []string
	lines = append(lines, txt.moodHeader)

	var moodParts []string
	for _, e := range AllEmotions {
		if total := m.globalMood[e]; total > 0 {
			moodParts = append(moodParts, m.formatPart(e, total, txt))
		}
	}
	if len(moodParts) == 0 {
		lines = append(lines, txt.neutral)
	} else {
		lines = append(lines, strings.Join(moodParts, txt.sep))
	}

	lines = append(lines, "", txt.targetHeader)
	for _, target := range m.targets() {
		var recs []*Record
		for _, r := range m.records {
			if r.Target == target && r.Intensity > 0 {
				recs = append(recs, r)
			}
		}
		if len(recs) == 0 {
			continue
		}
		parts := make([]string, 0, len(recs))
		for _, r := range recs {
			parts = append(parts, m.formatPart(r.Label, r.Intensity, txt))
		}
		line := "[" + target + "] " + strings.Join(parts, txt.sep)
		if compound, ok := m.DeriveCompound(recs); ok {
			line += txt.sep + txt.compoundLabel + compound.Name(m.lang)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// targets returns distinct targets in first-appearance order.
func (m *Manager) targets() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range m.records {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	return out
}

// Emotions returns the live record set. Pending recomputes are
// committed first so callers never observe a stale aggregate alongside
// fresh records.
func (m *Manager) Emotions() []*Record {
	m.commit()
	return m.records
}

// GlobalMood returns a copy of the mean intensity per basic emotion.
func (m *Manager) GlobalMood() map[BasicEmotion]float64 {
	m.commit()
	out := make(map[BasicEmotion]float64, len(m.globalMood))
	for e, v := range m.globalMood {
		out[e] = v
	}
	return out
}
