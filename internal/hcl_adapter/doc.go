// Package hcl_adapter reads object definitions written in HCL.
//
// A file holds any number of object blocks:
//
//	object "tree" {
//	  variables = {
//	    height = "ranI=4,7"
//	  }
//	  setter "trunk" {
//	    type = "simple"
//	    properties = { material = "log" }
//	  }
//	  instruction "stem" {
//	    type = "shape"
//	    shape "column" {
//	      type     = "cuboid"
//	      size     = { x = 1, y = height, z = 1 }
//	      material = "trunk"
//	    }
//	  }
//	}
//
// Labelled blocks are collected into the plural section of their type, so
// `setter "trunk"` becomes setters.trunk. Attributes whose value is not a
// literal, such as `height` above, are kept as their source text and parsed
// later as expressions.
package hcl_adapter
