package testutil

// Definitions shared by package tests. Stone is material 1, grass 2 and
// log 11 in the default palette.

// PillarHCL stacks `height` stone blocks on a single grass block.
const PillarHCL = `
object "pillar" {
  variables = {
    height = "ranI=2,4"
  }

  setter "stone" {
    type       = "simple"
    properties = { material = "stone" }
  }

  condition "ground" {
    shape    = "cuboid"
    mode     = "ALL"
    size     = { x = 1, y = 1, z = 1 }
    position = { y = -1 }
    check    = ["grass"]
  }

  instruction "column" {
    type = "shape"
    shape "body" {
      type     = "cuboid"
      size     = { x = 1, y = height, z = 1 }
      material = "stone"
    }
  }
}
`

// StairsHCL walks a block diagonally with a repeat instruction.
const StairsHCL = `
object "stairs" {
  variables = {
    i = 0
  }

  setter "step" {
    type       = "simple"
    properties = { material = "planks" }
  }

  instruction "tread" {
    type       = "block"
    properties = {
      position = { x = i, y = i, z = 0 }
      material = "step"
    }
  }

  instruction "climb" {
    type      = "repeat"
    repeat    = "tread"
    times     = 3
    increment = { i = 1 }
  }
}
`

// BoulderYAML is a sphere of randomly chosen rock.
const BoulderYAML = `name: boulder
variables:
  r: 1
setters:
  rock:
    type: random-simple
    properties:
      choices:
        stone: 1
        cobblestone: 1
instructions:
  body:
    type: shape
    shapes:
      ball:
        type: sphere
        size: {radius: r}
        position: {y: r}
        material: rock
`

// BrokenHCL references an undeclared variable.
const BrokenHCL = `
object "broken" {
  variables = {
    a = missing + 1
  }
}
`
