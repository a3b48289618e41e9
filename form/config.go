package form

// Config is the web form server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// BodyLimit caps request bodies, uploads included, in bytes.
	BodyLimit int
}
