// Package model defines the core data structures used throughout pathtag.
//
// # TagSet
//
// TagSet holds the two tag values derived from a directory position:
//
//	tags := model.TagSet{Artist: "Beatles", Album: "Revolver"}
//	for _, f := range model.Fields {
//	    fmt.Println(f, tags.Value(f))
//	}
//
// # Task
//
// Task pairs one file with the TagSet it should receive:
//
//	task := model.Task{Path: "/music/Beatles/Revolver/01 - Tax Man.mp3", Tags: tags}
//
// Only the artist and album fields are ever written. Every other tag a file
// carries is left alone.
package model
