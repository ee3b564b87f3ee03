// Package services implements the driving ports.
//
// RenderService is the use case at the centre: it loads a recipe, lets the
// NarrativeEnricher fill any narratives the recipe binds, composes every
// section through the renderer registry, assembles the document and hands
// it to the artifact store and render history. Composer and Assembler are
// pure; all I/O goes through driven ports.
package services
