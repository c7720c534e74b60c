// Package audio writes artist and album tags into audio files.
//
// # Backends
//
// Every tagging library is wrapped behind the Backend and Container
// interfaces so the rest of pathtag never depends on a vendor API:
//
//	backend, err := audio.NewBackend("auto", audio.BackendOptions{})
//	container, err := backend.Open("/music/Beatles/Revolver/01.mp3")
//	container.Set(model.FieldArtist, "Beatles")
//	err = container.Save()
//
// Available backends:
//   - id3: MP3 files through github.com/bogem/id3v2
//   - flac: FLAC Vorbis comments through github.com/go-flac
//   - mp4: M4A/MP4 atoms through github.com/Sorrow446/go-mp4tag
//   - taglib: anything TagLib reads, through go.senan.xyz/taglib
//   - auto: picks one of the above from the file extension
//
// # Tagger
//
// The Tagger applies a TagSet to one file:
//
//	tagger := audio.NewTagger(backend, audio.DefaultTagConfig(), logger)
//	outcome, err := tagger.Write(path, model.TagSet{Artist: "Beatles", Album: "Revolver"})
//
// Files that cannot be opened are logged at info level and skipped. Only a
// failed save is reported as an error.
package audio
