// Package manifest reads YAML scene manifests into scene graphs.
//
// A manifest lists the nodes of a scene and their URL fields:
//
//	nodes:
//	  - name: Brick
//	    type: texture
//	    url: [textures/brick.png, http://example.com/brick.png]
//	  - name: Sky
//	    type: texture
//	    fields:
//	      - name: frontUrl
//	        url: [sky/front.png]
//	      - name: backUrl
//	        url: [sky/back.png]
//	  - name: Logic
//	    type: script
//	    version: 2
//	    url: ["javascript:function initialize() {}"]
//	routes:
//	  - from: Clock.fraction_changed
//	    to: Spin.set_fraction
//
// Relative URLs are resolved against the manifest's own URL. The package
// also provides the Decoder used for inline manifests and the WorldLoader
// used for whole-world loads.
package manifest
