// Package kinetics implements the enzyme rate law and gas-liquid exchange
// models that parameterize the reaction network. Everything here is a pure
// function of a validated parameter set and the current concentrations.
package kinetics
