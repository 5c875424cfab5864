package consts

const (
	// DefaultBinary is the external online-schema-change tool invoked for
	// ALTER TABLE statements
	DefaultBinary = "pt-online-schema-change"

	// DefaultUsername is the historical default user of the external tool,
	// applied when the connection configuration carries no username
	DefaultUsername = "root"

	// DefaultPort is the default MySQL server port
	DefaultPort = 3306

	// MaskToken replaces credential material in any text before it is logged
	MaskToken = "[FILTERED]"

	// TailSize bounds the diagnostic tail of output lines retained for
	// failure reporting
	TailSize = 50
)
