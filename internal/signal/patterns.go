// Package signal implements the extraction and merge pipeline that turns raw
// conversational text and LLM-declared hints into an incrementally updated
// BeliefState, plus the vagueness assessment that decides when to ask
// clarifying questions instead of advancing scores.
package signal

import (
	"regexp"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// Rule-based observations always score below a well-formed LLM hint, which is
// what the merger's strictly-higher-confidence rule keys on.
const (
	ruleConfidenceDefault = 0.6
	ruleConfidenceStrong  = 0.7

	// evidenceRadius is how many characters around a match are kept as the
	// human-readable evidence quote.
	evidenceRadius = 80
)

// frustrationPattern classifies one frustration trigger. The tiers slice is
// evaluated in order, high before medium before low; the first hit wins.
type frustrationPattern struct {
	re       *regexp.Regexp
	severity domain.Severity
}

var frustrationTiers = []frustrationPattern{
	{regexp.MustCompile(`(?i)\b(so frustrated|sick (and tired )?of|can't stand|drives me (crazy|insane|nuts)|absolutely hate|fed up with|infuriating)\b`), domain.SeverityHigh},
	{regexp.MustCompile(`(?i)\b(i hate|really hard|frustrat\w*|struggle[sd]? (with|to)|such a pain|painful|tired of|really annoying)\b`), domain.SeverityMedium},
	{regexp.MustCompile(`(?i)\b(annoying|inconvenient|bothers me|wish (there was|i could)|would be nice if|bit of a hassle)\b`), domain.SeverityLow},
}

// categoryPattern maps a trigger to a narrowing-slot value with a fixed
// rule-tier confidence. Order expresses precedence; first match wins.
type categoryPattern struct {
	re         *regexp.Regexp
	value      string
	confidence float64
}

var customerTypePatterns = []categoryPattern{
	{regexp.MustCompile(`(?i)\b(b2b|enterprises?|businesses|companies|corporate clients|sales teams?|hr departments?)\b`), "B2B", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(small businesses|smbs?|local shops|mom.and.pop)\b`), "SMB", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(developers|engineers|programmers|devs)\b`), "developers", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(freelancers|creators|solopreneurs|remote workers)\b`), "prosumers", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(consumers|individuals|regular people|end users|b2c)\b`), "B2C", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(students|parents|families)\b`), "B2C", ruleConfidenceDefault},
}

var productTypePatterns = []categoryPattern{
	{regexp.MustCompile(`(?i)\b(marketplace|two.sided platform)\b`), "marketplace", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(mobile app|ios app|android app)\b`), "mobile app", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(saas|subscription software|web app|dashboard|platform)\b`), "SaaS", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(api|developer tool|sdk|cli tool)\b`), "developer tool", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(hardware|device|wearable|gadget)\b`), "hardware", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(agency|consulting|service business|done.for.you)\b`), "service", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\ban? app\b`), "app", ruleConfidenceDefault},
}

// geography maps city and region mentions to a country-level slot value. The
// city tier precedes country names so "Sydney" resolves before "Australia"
// would need to appear verbatim.
var geographyPatterns = []categoryPattern{
	{regexp.MustCompile(`(?i)\b(sydney|melbourne|brisbane|perth)\b`), "Australia", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(new york|nyc|san francisco|los angeles|austin|seattle|chicago|boston)\b`), "United States", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(london|manchester|edinburgh)\b`), "United Kingdom", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(berlin|munich|hamburg)\b`), "Germany", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(toronto|vancouver|montreal)\b`), "Canada", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(mumbai|bangalore|delhi)\b`), "India", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(australia)\b`), "Australia", ruleConfidenceStrong},
	{regexp.MustCompile(`(?i)\b(united states|usa|america)\b`), "United States", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(uk|united kingdom|britain)\b`), "United Kingdom", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(germany|canada|india|france|japan|brazil|singapore)\b`), "", ruleConfidenceDefault},
	{regexp.MustCompile(`(?i)\b(my city|locally|in my (town|area|neighborhood))\b`), "local", ruleConfidenceDefault},
}

// expertiseMarkers capture the area after a self-description. Group 1 is the
// claimed area.
var expertiseMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi(?:'ve| have) (?:been working|worked) in ([a-z][a-z0-9 /-]{2,40}?)(?: for|\.|,|$)`),
	regexp.MustCompile(`(?i)\bi work in ([a-z][a-z0-9 /-]{2,40}?)(?:\.|,| and| so|$)`),
	regexp.MustCompile(`(?i)\bi(?:'m| am) an? ([a-z][a-z0-9 /-]{2,40}?)(?: by trade| by training|\.|,|$)`),
	regexp.MustCompile(`(?i)\bmy background is in ([a-z][a-z0-9 /-]{2,40}?)(?:\.|,|$)`),
	regexp.MustCompile(`(?i)\bi(?:'ve| have) built ([a-z][a-z0-9 /-]{2,40}?)(?: before|\.|,|$)`),
}

var (
	expertiseYears      = regexp.MustCompile(`(?i)\b(\d{1,2})\+?\s*years?\b`)
	expertiseExpertCue  = regexp.MustCompile(`(?i)\b(expert|senior|lead|deeply familiar|specialist)\b`)
	interestGenuineCue  = regexp.MustCompile(`(?i)\b(i love|i'm passionate about|passionate about|i've always wanted|fascinated by|really excited about|obsessed with)\b`)
	interestTepidCue    = regexp.MustCompile(`(?i)\b(i guess|might be interesting|could be cool|maybe i'd|seems okay)\b`)
	interestTopicAfter  = regexp.MustCompile(`(?i)\b(?:i love|passionate about|always wanted to|fascinated by|really excited about|obsessed with)\s+([a-z][a-z0-9 /-]{2,40}?)(?:\.|,|!|$)`)
	hoursPerWeek        = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:hours?|hrs?)\s*(?:a|per|each|\/)\s*week\b`)
	capitalBootstrapCue = regexp.MustCompile(`(?i)\b(bootstrap|self.fund|my own (money|savings)|no outside (money|investment))\b`)
	capitalSeekingCue   = regexp.MustCompile(`(?i)\b(raise (money|capital|a round)|looking for invest\w+|find investors|seek\w* funding|pitch to vcs?)\b`)
	capitalHaveCue      = regexp.MustCompile(`(?i)\b(already raised|have funding|secured (funding|investment)|we're funded)\b`)
	riskLowCue          = regexp.MustCompile(`(?i)\b(can't afford to (lose|fail)|play it safe|keep my (day )?job|risk.averse|cautious|stable income)\b`)
	riskHighCue         = regexp.MustCompile(`(?i)\b(all.in|quit my job|bet (everything|it all)|go big|comfortable with risk)\b`)
)

// impactPatterns are ordered widest scope first so grandiose phrasing beats
// an incidental mention of a smaller scale.
var impactPatterns = []struct {
	re    *regexp.Regexp
	level domain.ImpactLevel
}{
	{regexp.MustCompile(`(?i)\b(change the world|global(ly)? impact|everyone on the planet|billions of (people|users)|worldwide)\b`), domain.ImpactWorld},
	{regexp.MustCompile(`(?i)\b(across the country|nationwide|national scale|the whole country)\b`), domain.ImpactCountry},
	{regexp.MustCompile(`(?i)\b(my city|across the city|citywide)\b`), domain.ImpactCity},
	{regexp.MustCompile(`(?i)\b(my community|local community|my neighborhood|people around me)\b`), domain.ImpactCommunity},
	{regexp.MustCompile(`(?i)\b(help people like me|a few people|myself and others|individuals)\b`), domain.ImpactIndividual},
}

// confirmationPhrases feed the user-fit component of the confidence score.
var confirmationPhrases = regexp.MustCompile(`(?i)^\s*(yes|yeah|yep|exactly|that's (right|correct)|makes sense|i agree|absolutely|definitely|spot on)\b`)

// IsConfirmation reports whether a user reply is an affirmative confirmation
// of the agent's last framing.
func IsConfirmation(userText string) bool {
	return confirmationPhrases.MatchString(userText)
}

// Vagueness triggers.
var (
	abstractProblemCue = regexp.MustCompile(`(?i)\b(make (things|life|the world) (better|easier)|solve (big|real) problems|help people succeed|improve society|fix everything)\b`)
	undefinedUserCue   = regexp.MustCompile(`(?i)\b(everyone|everybody|anybody|anyone|all people|the whole world) (needs|wants|would|will|could)\b`)
	handWavyCue        = regexp.MustCompile(`(?i)\b(somehow|figure (it|that) out later|the details don't matter|it just works|magic(ally)?|some kind of)\b`)
)

var buzzwords = []string{
	"ai-powered", "disrupt", "disruptive", "revolutionary", "game-changer",
	"game changing", "synergy", "blockchain", "web3", "next-gen",
	"paradigm shift", "10x", "unicorn", "viral", "gamified", "hypergrowth",
	"cutting-edge", "seamless", "frictionless",
}

// Feasibility red flags, split by how damning the language is.
var (
	impossibleCue  = regexp.MustCompile(`(?i)\b(teleport|time travel|perpetual motion|read minds|cure (all|every)|defy physics)\b`)
	unrealisticCue = regexp.MustCompile(`(?i)\b(everyone will (use|buy|love)|no competition( at all)?|guaranteed (success|profit)|overnight success|can't fail|trillion.dollar)\b`)
)
