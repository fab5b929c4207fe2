package grid

// Lane is a logical drum row
type Lane int

const (
	Kick Lane = iota
	Snare
	ClosedHat
	OpenHat
	Clap
	Perc
	Rim
	LowTom
	MidTom
	HighTom
	Crash
	Ride
)

// NumLanes is the number of logical drum lanes
const NumLanes = 12

// GeneratedLanes are the lanes a style table drives (Kick..Perc)
const GeneratedLanes = 6

// DrumChannel is the 1-based General MIDI percussion channel
const DrumChannel = 10

var laneNames = [NumLanes]string{
	"Kick", "Snare", "Closed HH", "Open HH", "Clap", "Perc",
	"Rim", "Low Tom", "Mid Tom", "High Tom", "Crash", "Ride",
}

func (l Lane) String() string {
	if l < 0 || int(l) >= NumLanes {
		return "?"
	}
	return laneNames[l]
}

// DrumKit maps logical lanes to MIDI notes
type DrumKit struct {
	Name  string
	Notes [NumLanes]uint8
}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name: "General MIDI",
		Notes: [NumLanes]uint8{
			36, // Kick
			38, // Snare
			42, // Closed HH
			46, // Open HH
			39, // Clap
			48, // Perc
			37, // Rim
			45, // Low Tom
			47, // Mid Tom
			50, // High Tom
			49, // Crash
			51, // Ride
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: [NumLanes]uint8{
			36, // BD
			40, // SD (RD-8 uses 40, not 38)
			42, // CH
			46, // OH
			39, // CP
			56, // CB
			37, // RS
			45, // LT
			48, // MT
			50, // HT
			49, // CY
			51, // RC
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: [NumLanes]uint8{
			36, 38, 42, 46, 39, 56, 37, 43, 47, 50, 49, 51,
		},
	},
}

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// DefaultKit is the default kit name
const DefaultKit = "gm"
