// Package buildtool recognizes build-tool markers in a directory and turns them
// into runnable build units.
//
// A Unit is a closed set of variants (PipelineBuild, ContainerBuild) sharing
// Kind, Identity, Directory and Build. Recognizers are consulted in the fixed
// order held by a Registry; the first marker found wins, so a directory yields
// at most one unit.
package buildtool
