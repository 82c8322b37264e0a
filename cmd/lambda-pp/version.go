package main

// Overridden at build time via -ldflags.
var version = "0.1.0"
