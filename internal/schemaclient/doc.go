// Package schemaclient fetches operation schemas from a running engine.
//
// The engine serves its full schema listing at GET /object_info. The client
// returns the raw document; decoding is left to model.ParseObjectInfo so a
// fetched listing and one read from disk go through the same code.
package schemaclient
