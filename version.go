package cascade

// Version is the release of the cascade module.
const Version = "0.4.0"
