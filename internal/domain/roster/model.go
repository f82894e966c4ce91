package roster

// Player is one athlete row on a team's season roster. String fields default
// to "N/A" when the upstream payload lacks the detail, so table renderers
// never deal with empty cells.
type Player struct {
	Name       string
	Positions  string
	Jersey     string
	Age        *int
	Height     string
	Weight     string
	Experience string
	College    string
	Status     string
}
