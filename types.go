package main

// runOptions carries the flag values shared by the CLI subcommands.
type runOptions struct {
	Model    string
	RawPath  string
	EnvPath  string
	CalPath  string
	ProcPath string

	DBPath string
	Name   string

	Product string
	Channel int
	HTMLOut string
	PNGOut  string
}
