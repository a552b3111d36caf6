package analysis

import "strings"

// Word lists shared by the extractors. Regex alternations are built from
// them so that each list has a single source of truth.

var speechVerbs = []string{
	"said", "says", "asked", "replied", "whispered", "shouted", "cried",
	"answered", "muttered", "called", "exclaimed", "yelled", "murmured",
	"declared", "insisted", "laughed", "sighed", "snapped", "told",
}

var actionVerbs = []string{
	"said", "asked", "walked", "ran", "smiled", "laughed", "looked",
	"turned", "took", "grabbed", "opened", "closed", "fought", "attacked",
	"killed", "saved", "found", "left", "entered", "arrived", "returned",
	"jumped", "climbed", "fell", "stood", "sat", "waited", "watched",
	"followed", "chased", "fled", "escaped", "drew", "threw", "struck",
	"kissed", "hugged", "cried", "shouted", "whispered", "nodded", "shook",
	"reached", "pulled", "pushed", "held", "carried", "gave", "stole",
	"hid", "searched", "discovered", "decided", "realized", "realised",
	"knew", "felt", "thought", "remembered", "wrote", "read", "rode",
	"sailed", "traveled", "travelled", "wandered", "rushed", "hurried",
	"stopped", "began", "started", "finished", "met", "married",
	"betrayed", "defeated", "confronted", "answered", "replied", "warned",
}

var stateChangeVerbs = []string{
	"became", "become", "becomes", "turned into", "died", "dies",
	"was born", "married", "transformed", "changed", "disappeared",
	"vanished", "awoke", "awakened", "collapsed", "was killed",
	"was crowned", "fell ill", "grew up",
}

var genericEventVerbs = []string{
	"happened", "began", "begins", "discovered", "occurred", "started",
	"ended", "arrived", "departed", "decided", "realized", "realised",
	"revealed", "escaped", "attacked", "learned", "found", "exploded",
	"erupted", "broke out", "came to an end",
}

var oppositionWords = []string{
	"fought", "fight", "fights", "fighting", "attacked", "attacks",
	"betrayed", "betrays", "enemy", "enemies", "against", "hated", "hates",
	"opposed", "opposes", "defeated", "killed", "threatened", "battled",
	"rival", "rivals", "confronted", "struck", "ambushed", "challenged",
	"despised", "hunted", "cursed",
}

var kinshipWords = []string{
	"mother", "father", "brother", "sister", "wife", "husband", "son",
	"daughter", "uncle", "aunt", "cousin", "grandmother", "grandfather",
	"friend", "master", "servant", "apprentice", "mentor", "enemy", "lover",
	"fiance", "fiancee", "companion", "guard", "captain", "niece", "nephew",
}

var honorifics = []string{
	"Mr", "Mrs", "Ms", "Miss", "Dr", "Lord", "Lady", "Sir", "Dame",
	"Captain", "King", "Queen", "Prince", "Princess", "Professor",
	"Master", "General", "Duke", "Duchess", "Count", "Countess", "Baron",
	"Father", "Mother", "Brother", "Sister", "Uncle", "Aunt", "Madam",
}

var appearanceWords = set(
	"tall", "short", "old", "young", "thin", "fat", "slender", "stout",
	"beautiful", "handsome", "ugly", "pale", "dark", "fair", "blonde",
	"bald", "bearded", "scarred", "small", "large", "huge", "tiny",
	"muscular", "frail", "wrinkled", "pretty", "plain", "gaunt", "lanky",
)

var personalityWords = set(
	"angry", "happy", "sad", "kind", "cruel", "brave", "cowardly", "wise",
	"foolish", "clever", "stupid", "proud", "humble", "gentle", "fierce",
	"honest", "cunning", "loyal", "jealous", "greedy", "generous", "shy",
	"bold", "calm", "nervous", "afraid", "furious", "cheerful", "bitter",
	"stubborn", "curious", "patient", "reckless", "ambitious", "quiet",
	"friendly", "hostile", "arrogant", "determined", "worried", "tired",
)

// capitalizedStopwords are capitalized tokens that are never names.
var capitalizedStopwords = set(
	"The", "A", "An", "He", "She", "It", "They", "We", "I", "You", "His",
	"Her", "Hers", "Their", "Its", "Our", "My", "Your", "Him", "Them", "Us",
	"This", "That", "These", "Those", "There", "Here", "Then", "When",
	"Where", "What", "Who", "Whom", "Whose", "Which", "Why", "How", "But",
	"And", "Or", "Nor", "So", "Yet", "If", "As", "At", "In", "On", "Of",
	"For", "With", "By", "From", "To", "Into", "After", "Before", "While",
	"Although", "Though", "Because", "Once", "Now", "Yes", "No", "Not",
	"All", "Some", "Every", "Each", "Nothing", "Something", "Everything",
	"Everyone", "Someone", "Nobody", "Anyone", "Perhaps", "Maybe", "Still",
	"Even", "Just", "Only", "Later", "Meanwhile", "Suddenly", "Finally",
	"Soon", "Again", "Also", "Never", "Always", "Sometimes", "Oh", "Well",
	"Hello", "Goodbye", "Please", "Thank", "Thanks", "Chapter", "Part",
	"Book", "Prologue", "Epilogue", "Interlude", "Monday", "Tuesday",
	"Wednesday", "Thursday", "Friday", "Saturday", "Sunday", "January",
	"February", "March", "April", "May", "June", "July", "August",
	"September", "October", "November", "December", "Spring", "Summer",
	"Autumn", "Winter", "Mr", "Mrs", "Ms", "Miss", "Dr", "Lord", "Lady",
	"Sir", "Dame", "Captain", "King", "Queen", "Prince", "Princess",
	"Professor", "Master", "General", "Duke", "Duchess", "Count",
	"Countess", "Baron", "Madam", "Did", "Do", "Does", "Was", "Were", "Is",
	"Are", "Had", "Has", "Have", "Will", "Would", "Could", "Should", "Can",
	"Let", "Come", "Go", "Look", "Wait", "Stop", "Listen", "Without",
	"Under", "Over", "About", "Above", "Below", "Across", "Through",
	"During", "Until", "Since", "Like", "Besides", "Instead", "However",
	"Otherwise", "Together", "Inside", "Outside", "Behind", "Beyond",
	"Near", "Far", "Long", "Many", "Much", "Most", "More", "Few", "Several",
	"Both", "Either", "Neither", "One", "Two", "Three", "First", "Second",
	"Last", "Next", "Another", "Other", "Such", "Very", "Too", "Morning",
	"Evening", "Night", "Today", "Tomorrow", "Yesterday", "God",
)

// locationPrepositions introduce place names. "to" is left out because it
// precedes people at least as often as places.
var locationPrepositions = []string{
	"in", "at", "from", "into", "near", "inside", "across", "through",
	"toward", "towards", "beyond", "within", "outside",
}

var placeTypes = []struct {
	keywords  []string
	placeType string
}{
	{[]string{"City", "Town", "Village", "Port", "Harbor", "Harbour", "Capital"}, "settlement"},
	{[]string{"Castle", "Tower", "Palace", "Keep", "Fort", "Manor", "Hall", "Temple", "Abbey", "Inn", "Tavern", "Church", "House"}, "building"},
	{[]string{"Forest", "Woods", "Wood", "Desert", "Marsh", "Swamp", "Plains", "Wilds", "Jungle"}, "wilderness"},
	{[]string{"River", "Lake", "Sea", "Ocean", "Bay", "Falls", "Stream"}, "water"},
	{[]string{"Mountain", "Mountains", "Mount", "Hill", "Hills", "Valley", "Peak", "Cliffs", "Canyon"}, "terrain"},
	{[]string{"Kingdom", "Empire", "Realm", "Land", "Lands", "Province", "Republic"}, "region"},
	{[]string{"Island", "Isle", "Isles"}, "island"},
	{[]string{"Street", "Road", "Bridge", "Square", "Gate", "Market"}, "landmark"},
}

var placeKeywords = func() []string {
	var out []string
	for _, pt := range placeTypes {
		out = append(out, pt.keywords...)
	}
	return out
}()

var objectTypes = []struct {
	nouns      []string
	objectType string
}{
	{[]string{"sword", "dagger", "knife", "bow", "arrow", "axe", "spear", "blade", "gun", "pistol", "rifle", "shield", "staff", "wand", "hammer", "crossbow"}, "weapon"},
	{[]string{"ring", "amulet", "necklace", "crown", "pendant", "bracelet", "locket", "brooch", "jewel", "gem", "diamond", "pearl", "tiara"}, "jewelry"},
	{[]string{"letter", "book", "map", "scroll", "journal", "diary", "note", "tome", "parchment", "manuscript", "will", "contract", "deed"}, "document"},
	{[]string{"key", "keys"}, "key"},
	{[]string{"box", "chest", "bag", "satchel", "casket", "coffer", "pouch", "trunk", "jar", "vial", "bottle", "flask"}, "container"},
	{[]string{"cloak", "robe", "armor", "armour", "helmet", "boots", "gloves", "mask", "coat"}, "clothing"},
	{[]string{"orb", "stone", "crystal", "relic", "talisman", "idol", "chalice", "grail", "mirror", "compass", "lamp", "lantern", "clock", "watch"}, "artifact"},
}

var significanceAdjectives = []string{
	"ancient", "magic", "magical", "cursed", "sacred", "legendary",
	"golden", "silver", "enchanted", "mysterious", "precious", "stolen",
	"hidden", "secret", "famous", "fabled", "holy", "forbidden", "priceless",
	"rare", "jeweled", "jewelled", "gilded", "rusted", "broken", "lost",
}

var plainAdjectives = []string{
	"old", "new", "small", "large", "big", "little", "heavy", "light",
	"long", "short", "red", "black", "white", "blue", "green", "brown",
	"iron", "wooden", "leather", "sharp", "worn", "tiny", "huge", "strange",
	"beautiful", "simple", "plain", "dark", "bright", "silk",
}

// objectStopNouns are nouns that follow possession verbs but are almost
// never story objects.
var objectStopNouns = set(
	"hand", "hands", "head", "eyes", "eye", "face", "way", "time", "door",
	"breath", "moment", "arm", "arms", "hair", "voice", "room", "place",
	"life", "thing", "things", "side", "back", "look", "chance", "step",
	"seat", "own", "lead", "turn", "attention", "advice", "word", "words",
	"fear", "courage", "shoulder", "shoulders", "heart", "mind", "feet",
	"foot", "leg", "legs", "lips", "mouth", "finger", "fingers", "rest",
	"end", "part", "one", "other", "others", "same", "first", "last",
	"news", "answer", "question", "idea", "decision", "care", "note",
	"day", "night", "morning", "evening", "world", "people", "man", "woman",
	"men", "women", "boy", "girl", "child", "children", "king", "queen",
	"father", "mother", "brother", "sister", "friend", "friends", "wife",
	"husband", "son", "daughter", "air", "ground", "floor", "wall", "walls",
	"window", "table", "city", "town", "house", "home", "road", "path",
	"name", "sight", "silence", "offer", "promise", "order", "orders",
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, w string) bool {
	_, ok := m[w]
	return ok
}

// alternation joins words into a regex alternation, longest first so that
// multi-word phrases win over their prefixes.
func alternation(words []string) string {
	return "(?:" + longestFirst(words) + ")"
}

// capture is alternation as a capturing group.
func capture(words []string) string {
	return "(" + longestFirst(words) + ")"
}

func longestFirst(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && len(sorted[j]) > len(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for i, w := range sorted {
		sorted[i] = strings.ReplaceAll(w, " ", `\s+`)
	}
	return strings.Join(sorted, "|")
}
