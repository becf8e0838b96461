package integrator

// Version is the release of the compiler.
var Version = "0.4.0"
