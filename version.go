package tarantula

// Version is the interpreter release version reported by the CLI.
const Version = "0.4.0"
