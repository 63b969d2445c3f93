// Package graph serializes include graphs to JSON.
//
// The JSON form is written next to rendered images when the "json" format is
// requested. It lists nodes in declaration order and every edge, duplicates
// included, so downstream tools see exactly what the renderer saw:
//
//	{
//	  "name": "app.o",
//	  "nodes": [{"id": "app.o"}, {"id": "app.h"}],
//	  "edges": [{"from": "app.o", "to": "app.h"}]
//	}
//
// [ReadGraph] reverses the conversion.
package graph
