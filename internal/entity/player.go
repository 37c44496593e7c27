package entity

const (
	HumanKind = "human"
	BotKind   = "bot"
)

// Player is one side of a session: a named human or a bot with a difficulty
// level. Mark is assigned when the player is seated at a board.
type Player struct {
	Name  string `json:"name"`
	Mark  string `json:"mark,omitempty"`
	Kind  string `json:"kind"`
	Level string `json:"level,omitempty"`
}

func NewHumanPlayer(name string) *Player {
	return &Player{Name: name, Kind: HumanKind}
}

func NewBotPlayer(level string) *Player {
	return &Player{Name: "bot:" + level, Kind: BotKind, Level: level}
}

func (that *Player) IsBot() bool {
	return that.Kind == BotKind
}
