// Package sweep re-integrates the reaction system across parameter grids
// to produce one-dimensional sensitivity lines and multi-parameter
// heatmaps. Grid points are embarrassingly parallel and run on a bounded
// worker pool; a failed point is recorded in place and never poisons its
// neighbours.
package sweep
