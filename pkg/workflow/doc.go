/*
Package workflow models the n8n workflow document produced by the compiler.

A Document holds a flat list of nodes and a connection map keyed by source node id.
Each node kind has a fixed n8n type discriminator and version; those strings and the
JSON field names are the compatibility surface with the importing engine and must not
change.

	{
	  "nodes": [ {"parameters": {...}, "id": "...", "name": "...", "type": "...", "typeVersion": 1, "position": [250, 300]} ],
	  "connections": { "<node id>": { "main": [ [ {"node": "<target id>", "input": "main"} ] ] } }
	}
*/
package workflow
