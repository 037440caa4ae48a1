// Package command provides the chat-line tokenizer, the command registries,
// and the built-in command definitions for private and channel contexts.
package command

// Categories for organizing help output.
const (
	CategoryAccount  = "account"
	CategoryCampaign = "campaign"
	CategoryCombat   = "combat"
	CategoryStats    = "stats"
	CategorySystem   = "system"
)

// Categories lists every category in help order.
var Categories = []string{CategoryAccount, CategoryCampaign, CategoryStats, CategoryCombat, CategorySystem}

// Handler identifiers mapping commands to dispatcher handlers.
const (
	HandlerRegister    = "register"
	HandlerLogin       = "login"
	HandlerLogout      = "logout"
	HandlerCreate      = "create"
	HandlerAddFeat     = "addfeat"
	HandlerPrivateRoll = "private_roll"
	HandlerRoll        = "roll"
	HandlerSaveAll     = "saveall"
	HandlerSave        = "save"
	HandlerLookup      = "lookup"
	HandlerMLookup     = "mlookup"
	HandlerAddMonster  = "addmonster"
	HandlerSpawn       = "spawn"
	HandlerBestiary    = "bestiary"
	HandlerUpdate      = "update"
	HandlerIncrease    = "increase"
	HandlerTemp        = "temp"
	HandlerClearTemp   = "cleartemp"
	HandlerDamage      = "damage"
	HandlerMove        = "move"
	HandlerWho         = "who"
	HandlerHelp        = "help"
)

// Command defines a chat command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the argument shape shown when the command is malformed.
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler maps to the dispatcher handler.
	Handler string
	// DMOnly commands require the sender to run the campaign on the
	// addressed channel.
	DMOnly bool
}

// Format renders the canonical invocation, e.g. ".damage target value".
func (c *Command) Format(prefix string) string {
	if c.Usage == "" {
		return prefix + c.Name
	}
	return prefix + c.Name + " " + c.Usage
}

// PrivateCommands returns the commands accepted in a private message.
func PrivateCommands() []Command {
	return []Command{
		// Account commands
		{Name: "register", Usage: "username password health movement str dex con wis int cha", Help: "Create an account", Category: CategoryAccount, Handler: HandlerRegister},
		{Name: "login", Usage: "username password channel", Help: "Log in to the campaign on a channel", Category: CategoryAccount, Handler: HandlerLogin},
		{Name: "logout", Help: "Save and log out", Category: CategoryAccount, Handler: HandlerLogout},
		{Name: "addfeat", Usage: "name of feat", Help: "Add a feat to your character", Category: CategoryAccount, Handler: HandlerAddFeat},
		{Name: "save", Help: "Save your character", Category: CategoryAccount, Handler: HandlerSave},

		// Campaign commands
		{Name: "create", Usage: "channel campaign name", Help: "Start a campaign on a channel with you as DM", Category: CategoryCampaign, Handler: HandlerCreate},
		{Name: "addmonster", Usage: "channel name health movement str dex con wis int cha", Help: "Add a monster to your campaign", Category: CategoryCampaign, Handler: HandlerAddMonster},
		{Name: "spawn", Usage: "channel template", Help: "Add a monster from the bestiary", Category: CategoryCampaign, Handler: HandlerSpawn},
		{Name: "bestiary", Help: "List bestiary templates", Category: CategoryCampaign, Handler: HandlerBestiary},
		{Name: "mlookup", Usage: "channel target [stat]", Help: "Show a monster's stats", Category: CategoryCampaign, Handler: HandlerMLookup},

		// Stats commands
		{Name: "lookup", Usage: "target [stat]", Help: "Show a player's stats", Category: CategoryStats, Handler: HandlerLookup},
		{Name: "roll", Usage: "[dice]", Help: "Roll a d20 or a dice expression like 2d6+1", Category: CategoryStats, Handler: HandlerPrivateRoll},

		// System commands
		{Name: "saveall", Help: "Save every logged-in player", Category: CategorySystem, Handler: HandlerSaveAll},
		{Name: "help", Aliases: []string{"commands"}, Usage: "[command]", Help: "List commands or describe one", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// ChannelCommands returns the prefixed commands accepted in a campaign channel.
func ChannelCommands() []Command {
	return []Command{
		// Stats commands
		{Name: "roll", Usage: "[@monster] [stat]", Help: "Roll a d20, optionally adding a stat bonus", Category: CategoryStats, Handler: HandlerRoll},
		{Name: "lookup", Usage: "target [stat]", Help: "Show a player's or monster's stats", Category: CategoryStats, Handler: HandlerLookup},
		{Name: "update", Usage: "stat value", Help: "Set one of your stats", Category: CategoryStats, Handler: HandlerUpdate},
		{Name: "increase", Usage: "stat value", Help: "Raise one of your stats", Category: CategoryStats, Handler: HandlerIncrease},

		// Combat commands
		{Name: "temp", Usage: "target health movement str dex con wis int cha", Help: "Give a target temporary stats", Category: CategoryCombat, Handler: HandlerTemp, DMOnly: true},
		{Name: "cleartemp", Usage: "target", Help: "Revert a target to its base stats", Category: CategoryCombat, Handler: HandlerClearTemp, DMOnly: true},
		{Name: "damage", Usage: "target value", Help: "Damage a target", Category: CategoryCombat, Handler: HandlerDamage, DMOnly: true},
		{Name: "move", Aliases: []string{"mv"}, Usage: "[@monster] x y", Help: "Move yourself or a monster on the grid", Category: CategoryCombat, Handler: HandlerMove},

		// System commands
		{Name: "who", Help: "List the DM and logged-in players", Category: CategorySystem, Handler: HandlerWho},
		{Name: "help", Aliases: []string{"commands"}, Usage: "[command]", Help: "List commands or describe one", Category: CategorySystem, Handler: HandlerHelp},
	}
}
