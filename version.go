package pathrag

// Version is the library version, stamped into transports and the CLI.
const Version = "0.1.0"
