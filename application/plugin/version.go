package plugin

// Version of labelbind, reported in run metadata.
const Version = "0.1.0"
