// Package main is the entry point for the jam2midi CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/james-see/jam2midi/pkg/api"
	"github.com/james-see/jam2midi/pkg/player"
	"github.com/james-see/jam2midi/pkg/sequencer"
	"github.com/james-see/jam2midi/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	genreName   string
	chordList   []string
	tempo       int
	layerSpecs  []string
	outputDir   string
	playSeconds int
	serverPort  int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jam2midi",
	Short: "Turn pattern strings and chord progressions into MIDI files",
	Long: `jam2midi renders a small pattern mini-language (drum grids and
note-name melodies, bars separated by '|') plus a chord progression
into Standard MIDI Files, one per track.

Examples:
  jam2midi export --genre pop --tempo 96 --layer "drums:beat:k h s h | k k s h"
  jam2midi export --chords C,G,Am,F --tempo 110 -o out/
  jam2midi play --genre lofi --tempo 80 --seconds 10
  jam2midi genres
  jam2midi tui
  jam2midi serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a song to .mid files",
	Long:  `Renders the chord progression and each non-empty layer to stand-alone Standard MIDI Files.`,
	RunE:  runExport,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a song live, printing events as they fire",
	RunE:  runPlay,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genre catalog",
	RunE:  runGenres,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Song configuration flags shared by export and play
	for _, c := range []*cobra.Command{exportCmd, playCmd} {
		c.Flags().StringVarP(&genreName, "genre", "g", "", "Genre from the catalog (see 'genres')")
		c.Flags().StringSliceVar(&chordList, "chords", nil, "Explicit chord progression (e.g. C,G,Am,F)")
		c.Flags().IntVarP(&tempo, "tempo", "t", 120, "Tempo in BPM")
		c.Flags().StringArrayVarP(&layerSpecs, "layer", "l", nil, `Layer as "kind:name:pattern" (kind: melody|bass|drums)`)
	}

	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	playCmd.Flags().IntVar(&playSeconds, "seconds", 8, "How long to run the transport")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildSong assembles the immutable song snapshot from the flags
func buildSong() (sequencer.Song, error) {
	song := sequencer.Song{Tempo: tempo}

	switch {
	case genreName != "":
		prog, ok := sequencer.ProgressionForGenre(genreName)
		if !ok {
			return song, fmt.Errorf("unknown genre %q (see 'jam2midi genres')", genreName)
		}
		song.Progression = &prog
	case len(chordList) > 0:
		song.Progression = &sequencer.Progression{Name: "chords", Chords: chordList}
	}

	for _, spec := range layerSpecs {
		layer, err := parseLayerSpec(spec)
		if err != nil {
			return song, err
		}
		song.Layers = append(song.Layers, layer)
	}

	return song, nil
}

// parseLayerSpec parses "kind:name:pattern"; the name may be omitted
func parseLayerSpec(spec string) (sequencer.Layer, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return sequencer.Layer{}, fmt.Errorf("bad layer %q: want kind:name:pattern", spec)
	}

	kind, ok := sequencer.ParseKind(parts[0])
	if !ok {
		return sequencer.Layer{}, fmt.Errorf("bad layer %q: unknown kind %q", spec, parts[0])
	}

	name := parts[0]
	pattern := parts[1]
	if len(parts) == 3 {
		name = parts[1]
		pattern = parts[2]
	}

	return sequencer.Layer{Name: name, Kind: kind, Pattern: pattern}, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	song, err := buildSong()
	if err != nil {
		return err
	}

	files, err := sequencer.ExportSong(song)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to export: no progression and no non-empty layer")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(outputDir, f.Filename)
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", path, len(f.Data))
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	song, err := buildSong()
	if err != nil {
		return err
	}

	p := player.New(player.NewLogSink(os.Stdout))
	if err := p.Play(song); err != nil {
		return err
	}

	fmt.Printf("Playing for %ds at %d BPM (ctrl+c to abort)...\n", playSeconds, tempo)
	time.Sleep(time.Duration(playSeconds) * time.Second)
	p.Stop()
	fmt.Println("Stopped.")
	return nil
}

func runGenres(cmd *cobra.Command, args []string) error {
	for _, name := range sequencer.GenreNames() {
		prog, _ := sequencer.ProgressionForGenre(name)
		fmt.Printf("%-8s %-16s %s\n", name, prog.Name, strings.Join(prog.Chords, " "))
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
