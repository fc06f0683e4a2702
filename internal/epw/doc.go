// Package epw reads, writes and builds EnergyPlus Weather (EPW) files.
//
// An EPW file is comma-separated text: a run of header lines, each a block
// name followed by its fields (LOCATION, DESIGN CONDITIONS, ..., DATA PERIODS),
// then one 35-field data line per time step. Hours are 1-24 and label the end
// of the interval. Quantities the producer does not know are written as
// large sentinel values, see the Missing* constants.
package epw
