package emotion

// BasicEmotion is one of the eight Plutchik primary emotions.
type BasicEmotion string

const (
	Joy          BasicEmotion = "joy"
	Anticipation BasicEmotion = "anticipation"
	Anger        BasicEmotion = "anger"
	Disgust      BasicEmotion = "disgust"
	Sadness      BasicEmotion = "sadness"
	Surprise     BasicEmotion = "surprise"
	Fear         BasicEmotion = "fear"
	Trust        BasicEmotion = "trust"
)

// AllEmotions is the fixed iteration order for deterministic output.
var AllEmotions = []BasicEmotion{
	Joy, Anticipation, Anger, Disgust, Sadness, Surprise, Fear, Trust,
}

// ParseBasicEmotion maps a raw label (as produced by the extractor) to a
// BasicEmotion. Unknown labels return false.
func ParseBasicEmotion(s string) (BasicEmotion, bool) {
	switch BasicEmotion(s) {
	case Joy, Anticipation, Anger, Disgust, Sadness, Surprise, Fear, Trust:
		return BasicEmotion(s), true
	}
	return "", false
}

// Lang selects the display language for rendered output.
type Lang string

const (
	LangEN Lang = "en"
	LangJA Lang = "ja"
)

type displayName struct {
	en string
	ja string
}

func (n displayName) get(lang Lang) string {
	if lang == LangJA {
		return n.ja
	}
	return n.en
}

var displayNames = map[BasicEmotion]displayName{
	Joy:          {"joy", "喜び"},
	Anticipation: {"anticipation", "期待"},
	Anger:        {"anger", "怒り"},
	Disgust:      {"disgust", "嫌悪"},
	Sadness:      {"sadness", "悲しみ"},
	Surprise:     {"surprise", "驚き"},
	Fear:         {"fear", "恐れ"},
	Trust:        {"trust", "信頼"},
}

// Name returns the display name of the emotion in the given language.
func (e BasicEmotion) Name(lang Lang) string {
	return displayNames[e].get(lang)
}

// ==========================================
// OPPOSITES
// ==========================================

var oppositeEmotions = map[BasicEmotion]BasicEmotion{
	Joy:          Sadness,
	Sadness:      Joy,
	Trust:        Disgust,
	Disgust:      Trust,
	Fear:         Anger,
	Anger:        Fear,
	Surprise:     Anticipation,
	Anticipation: Surprise,
}

// Opposite returns the paired opposite emotion. The pairing is symmetric:
// e.Opposite().Opposite() == e for every emotion.
func (e BasicEmotion) Opposite() BasicEmotion {
	return oppositeEmotions[e]
}

// ==========================================
// EVENT STRENGTH
// ==========================================

// EventStrengths maps the qualitative strength of an incoming event to
// the intensity delta it applies.
var EventStrengths = map[string]float64{
	"weak":   0.03,
	"medium": 0.05,
	"strong": 0.10,
}

// DefaultEventMagnitude is used when an event carries an unrecognized
// strength. Upstream extraction noise is expected; it is not an error.
const DefaultEventMagnitude = 0.05

// EventMagnitude resolves a strength string to an intensity delta.
func EventMagnitude(strength string) float64 {
	if m, ok := EventStrengths[strength]; ok {
		return m
	}
	return DefaultEventMagnitude
}

// ==========================================
// INTENSITY CATEGORIES
// ==========================================

// IntensityCategory buckets a raw intensity for presentation.
type IntensityCategory string

const (
	CategoryWeak   IntensityCategory = "weak"
	CategoryBasic  IntensityCategory = "basic"
	CategoryStrong IntensityCategory = "strong"
)

// intensityThresholds holds the (lower, upper) bounds per emotion.
// Kept per-emotion so individual emotions can be retuned later.
var intensityThresholds = map[BasicEmotion][2]float64{
	Joy:          {0.3, 0.7},
	Anticipation: {0.3, 0.7},
	Anger:        {0.3, 0.7},
	Disgust:      {0.3, 0.7},
	Sadness:      {0.3, 0.7},
	Surprise:     {0.3, 0.7},
	Fear:         {0.3, 0.7},
	Trust:        {0.3, 0.7},
}

var defaultIntensityThresholds = [2]float64{0.3, 0.7}

// CategoryFor classifies an intensity as weak, basic, or strong using the
// emotion's thresholds. Total function, no side effects.
func CategoryFor(e BasicEmotion, intensity float64) IntensityCategory {
	bounds, ok := intensityThresholds[e]
	if !ok {
		bounds = defaultIntensityThresholds
	}
	switch {
	case intensity < bounds[0]:
		return CategoryWeak
	case intensity < bounds[1]:
		return CategoryBasic
	default:
		return CategoryStrong
	}
}

// alternateNames renames weak/strong intensities per emotion so the
// rendered output reads naturally instead of exposing raw numbers alone.
var alternateNames = map[BasicEmotion]map[IntensityCategory]displayName{
	Joy: {
		CategoryWeak:   {"mild joy", "ほのかな喜び"},
		CategoryStrong: {"ecstasy", "恍惚"},
	},
	Anticipation: {
		CategoryWeak:   {"hope", "希望"},
		CategoryStrong: {"eagerness", "熱望"},
	},
	Anger: {
		CategoryWeak:   {"irritation", "苛立ち"},
		CategoryStrong: {"rage", "激怒"},
	},
	Disgust: {
		CategoryWeak:   {"revulsion", "軽い嫌悪"},
		CategoryStrong: {"loathing", "激しい嫌悪"},
	},
	Sadness: {
		CategoryWeak:   {"melancholy", "物悲しさ"},
		CategoryStrong: {"grief", "深い悲しみ"},
	},
	Surprise: {
		CategoryWeak:   {"mild surprise", "軽い驚き"},
		CategoryStrong: {"astonishment", "大いなる驚き"},
	},
	Fear: {
		CategoryWeak:   {"apprehension", "不安"},
		CategoryStrong: {"terror", "恐怖"},
	},
	Trust: {
		CategoryWeak:   {"fondness", "好意"},
		CategoryStrong: {"admiration", "深い信頼"},
	},
}

// AlternateName returns the category-specific display name for an
// emotion, if one exists. The basic category has no alternate name.
func AlternateName(e BasicEmotion, cat IntensityCategory, lang Lang) (string, bool) {
	names, ok := alternateNames[e]
	if !ok {
		return "", false
	}
	n, ok := names[cat]
	if !ok {
		return "", false
	}
	return n.get(lang), true
}

// ==========================================
// COMPOUND EMOTIONS
// ==========================================

// Compound is a named emotion derived from a pair of co-occurring basic
// emotions on the same target.
type Compound struct {
	EN string
	JA string
}

// Name returns the compound's display name in the given language.
func (c Compound) Name(lang Lang) string {
	if lang == LangJA {
		return c.JA
	}
	return c.EN
}

// pair is an unordered two-emotion key. pairOf normalizes the order so
// lookups are order-independent.
type pair struct {
	a, b BasicEmotion
}

func pairOf(x, y BasicEmotion) pair {
	if x > y {
		x, y = y, x
	}
	return pair{x, y}
}

// compoundEmotions covers every unordered pair of distinct basic
// emotions: the 24 Plutchik dyads plus conflict names for the four
// opposite pairs.
var compoundEmotions = map[pair]Compound{
	pairOf(Anticipation, Joy):      {"Optimism", "楽観"},
	pairOf(Surprise, Sadness):      {"Disappointment", "失望"},
	pairOf(Anger, Joy):             {"Pride", "誇り"},
	pairOf(Fear, Sadness):          {"Despair", "絶望"},
	pairOf(Disgust, Joy):           {"Morbidness", "病的状態"},
	pairOf(Trust, Sadness):         {"Sentimentality", "感傷"},
	pairOf(Anger, Anticipation):    {"Aggressiveness", "積極性"},
	pairOf(Fear, Surprise):         {"Awe", "畏敬"},
	pairOf(Disgust, Anticipation):  {"Cynicism", "冷笑"},
	pairOf(Trust, Surprise):        {"Curiosity", "好奇心"},
	pairOf(Sadness, Anticipation):  {"Pessimism", "悲観"},
	pairOf(Joy, Surprise):          {"Delight", "歓喜"},
	pairOf(Disgust, Anger):         {"Contempt", "軽蔑"},
	pairOf(Trust, Fear):            {"Submission", "服従"},
	pairOf(Sadness, Anger):         {"Envy", "羨望"},
	pairOf(Joy, Fear):              {"Guilt", "罪悪感"},
	pairOf(Surprise, Anger):        {"Outrage", "憤慨"},
	pairOf(Anticipation, Fear):     {"Anxiety", "不安"},
	pairOf(Sadness, Disgust):       {"Remorse", "自責"},
	pairOf(Joy, Trust):             {"Love", "愛"},
	pairOf(Surprise, Disgust):      {"Unbelief", "不信"},
	pairOf(Anticipation, Trust):    {"Hope", "希望"},
	pairOf(Fear, Disgust):          {"Shame", "恥"},
	pairOf(Anger, Trust):           {"Dominance", "優位"},
	pairOf(Joy, Sadness):           {"Bittersweetness", "ほろ苦さ"},
	pairOf(Trust, Disgust):         {"Ambivalence", "両価性"},
	pairOf(Fear, Anger):            {"Frozenness", "立ちすくみ"},
	pairOf(Surprise, Anticipation): {"Confusion", "困惑"},
}

// CompoundForPair looks up the compound for two distinct basic emotions.
// The order of arguments does not matter.
func CompoundForPair(x, y BasicEmotion) (Compound, bool) {
	if x == y {
		return Compound{}, false
	}
	c, ok := compoundEmotions[pairOf(x, y)]
	return c, ok
}
