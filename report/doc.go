// Package report renders clustering results as stable text tables and a
// JSON summary, and publishes them to a blobstore.Store.
//
// Two tables are produced:
//
//	centers.txt   one row per center: "k j c_1 ... c_d"
//	indices.txt   a "#" header naming the columns, then one row per k
//
// Floats are written in the shortest form that parses back to the same
// value, so Parse* round trips are exact.
package report
