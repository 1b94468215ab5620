// Command versekit parses, names and stores Bible passages.
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/versekit/core/compress"
	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/osis"
	"github.com/FocuswithJustin/versekit/core/passage"
	"github.com/FocuswithJustin/versekit/core/sqlite"
	"github.com/FocuswithJustin/versekit/core/versification"
	"github.com/FocuswithJustin/versekit/internal/cache"
	"github.com/FocuswithJustin/versekit/internal/config"
	"github.com/FocuswithJustin/versekit/internal/logging"
	"github.com/FocuswithJustin/versekit/internal/store"
	"github.com/FocuswithJustin/versekit/internal/validation"
)

const version = "0.1.0"

// CLI defines the command-line interface for versekit.
type CLI struct {
	// Global flags
	Config   string `name:"config" short:"c" help:"Config file (YAML)" type:"path" env:"VERSEKIT_CONFIG"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`

	// Command groups (noun-first organization)
	Ref     RefGroup    `cmd:"" help:"Reference parsing and naming"`
	Tally   TallyCmd    `cmd:"" help:"Rank verses by how often references hit them"`
	Binary  BinaryGroup `cmd:"" help:"Binary verse-set encoding"`
	Store   StoreGroup  `cmd:"" help:"Saved passages"`
	Conf    ConfigGroup `cmd:"" name:"config" help:"Configuration"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// RefGroup contains reference operations.
type RefGroup struct {
	Parse   ParseCmd   `cmd:"" help:"Parse references and describe the passage"`
	Name    NameCmd    `cmd:"" help:"Print the canonical name of references"`
	Blur    BlurCmd    `cmd:"" help:"Widen every range by a number of verses"`
	Osis    OsisCmd    `cmd:"" help:"Convert between reference text and OSIS"`
	Extract ExtractCmd `cmd:"" help:"Collect the references of an OSIS document"`
	Canon   CanonCmd   `cmd:"" help:"Show canon metadata"`
}

// BinaryGroup contains binary encoding operations.
type BinaryGroup struct {
	Encode EncodeCmd `cmd:"" help:"Encode references as a binary verse set"`
	Decode DecodeCmd `cmd:"" help:"Decode a binary verse set"`
}

// StoreGroup contains passage store operations.
type StoreGroup struct {
	Save   SaveCmd   `cmd:"" help:"Save a passage"`
	Load   LoadCmd   `cmd:"" help:"Load a passage by ID or name"`
	List   ListCmd   `cmd:"" help:"List saved passages"`
	Delete DeleteCmd `cmd:"" help:"Delete a saved passage"`
}

// ConfigGroup contains configuration operations.
type ConfigGroup struct {
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration"`
}

// app is bound into every command's Run method.
type app struct {
	ctx  context.Context
	cfg  *config.Config
	refs *cache.RefCache
	out  io.Writer
}

// openStore is injectable for tests.
var openStore = func(a *app) (*store.Store, error) {
	return store.Open(a.ctx, a.cfg.Store.Path, a.cfg.Store.BlobDir, a.cfg.Compression())
}

// kind resolves a --kind flag, falling back to the configured kind.
func (a *app) kind(flag string) (passage.Kind, error) {
	if flag == "" {
		return a.cfg.Kind(), nil
	}
	return passage.ParseKind(flag)
}

// parse joins args into one reference list and parses it through the cache.
func (a *app) parse(args []string, kindFlag string) (passage.Passage, error) {
	k, err := a.kind(kindFlag)
	if err != nil {
		return nil, err
	}
	refs := strings.Join(args, ", ")
	if err := validation.ValidateRefs(refs); err != nil {
		return nil, err
	}
	p, err := a.refs.Parse(refs, k)
	if err != nil {
		return nil, err
	}
	logging.PassageParsed(a.ctx, refs, p.Name(), p.CountVerses(), k.String())
	return p, nil
}

// renderOptions applies --case and --persistent over the configured options.
func (a *app) renderOptions(caseFlag string, persistent bool) (passage.RenderOptions, error) {
	opts, err := a.cfg.RenderOptions()
	if err != nil {
		return opts, err
	}
	c := opts.Case()
	if caseFlag != "" {
		if c, err = versification.ParseCase(caseFlag); err != nil {
			return opts, err
		}
	}
	return passage.NewRenderOptions(c, persistent || opts.Persistent())
}

// ParseCmd describes a passage.
type ParseCmd struct {
	Refs   []string `arg:"" help:"References, e.g. \"Gen 1:1-3\" \"Exo 2\""`
	Kind   string   `help:"Passage kind (ranged, bitwise, tally)"`
	Verses bool     `help:"List every verse"`
	Ranges bool     `help:"List every range"`
}

func (c *ParseCmd) Run(a *app) error {
	p, err := a.parse(c.Refs, c.Kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "name:    %s\n", p.Name())
	fmt.Fprintf(a.out, "kind:    %s\n", p.Kind())
	fmt.Fprintf(a.out, "verses:  %d\n", p.CountVerses())
	fmt.Fprintf(a.out, "ranges:  %d\n", p.CountRanges())
	fmt.Fprintf(a.out, "books:   %d\n", p.BooksInPassage())
	if c.Ranges {
		for r := range p.Ranges() {
			fmt.Fprintf(a.out, "  %s\n", r.Name())
		}
	}
	if c.Verses {
		for v := range p.Verses() {
			fmt.Fprintf(a.out, "  %s\n", v.Name())
		}
	}
	return nil
}

// NameCmd prints a canonical name.
type NameCmd struct {
	Refs       []string `arg:"" help:"References"`
	Case       string   `help:"Name case (lower, sentence, upper)"`
	Persistent bool     `help:"Keep the text each reference was typed as"`
}

func (c *NameCmd) Run(a *app) error {
	opts, err := a.renderOptions(c.Case, c.Persistent)
	if err != nil {
		return err
	}
	refs := strings.Join(c.Refs, ", ")
	if err := validation.ValidateRefs(refs); err != nil {
		return err
	}
	if opts == passage.DefaultRenderOptions {
		name, err := a.refs.Name(refs)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, name)
		return nil
	}
	// Persistent names need the original text, which the cache does not keep.
	p, err := passage.Parse(refs)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.NameWith(opts))
	return nil
}

// BlurCmd widens a passage.
type BlurCmd struct {
	Refs     []string `arg:"" help:"References"`
	By       int      `short:"n" help:"Verses to add on each side" default:"1"`
	Restrict string   `help:"Boundary blurring may not cross (none, chapter)" default:"chapter"`
}

func (c *BlurCmd) Run(a *app) error {
	r, err := passage.ParseRestriction(c.Restrict)
	if err != nil {
		return err
	}
	p, err := a.parse(c.Refs, "")
	if err != nil {
		return err
	}
	if err := p.Blur(c.By, r); err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.Name())
	return nil
}

// OsisCmd converts to and from OSIS references.
type OsisCmd struct {
	Refs []string `arg:"" help:"References, or OSIS references with --from-osis"`
	From bool     `name:"from-osis" help:"Read OSIS references and print a name"`
	IDs  bool     `name:"ids" help:"Print one osisID per verse"`
}

func (c *OsisCmd) Run(a *app) error {
	if c.From {
		refs := strings.Join(c.Refs, " ")
		if err := validation.ValidateRefs(refs); err != nil {
			return err
		}
		p, err := osis.ParseRef(refs, passage.WithKind(a.cfg.Kind()))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, p.Name())
		return nil
	}
	p, err := a.parse(c.Refs, "")
	if err != nil {
		return err
	}
	if c.IDs {
		fmt.Fprintln(a.out, osis.FormatID(p))
		return nil
	}
	fmt.Fprintln(a.out, osis.FormatRef(p))
	return nil
}

// ExtractCmd reads an OSIS document.
type ExtractCmd struct {
	Path string `arg:"" help:"OSIS XML document" type:"existingfile"`
}

func (c *ExtractCmd) Run(a *app) error {
	data, err := validation.ReadFileLimited(c.Path, validation.MaxDocumentSize)
	if err != nil {
		return err
	}
	ex, err := osis.Extract(bytes.NewReader(data), passage.WithKind(a.cfg.Kind()))
	if err != nil {
		return err
	}
	for _, s := range ex.Skipped {
		logging.WarnContext(a.ctx, "skipped unresolved reference", "path", c.Path, "ref", s)
	}
	fmt.Fprintln(a.out, ex.Passage.Name())
	fmt.Fprintf(a.out, "%d verses from %d references, %d skipped\n",
		ex.Passage.CountVerses(), ex.Values, len(ex.Skipped))
	return nil
}

// CanonCmd prints canon metadata.
type CanonCmd struct {
	Book     string `arg:"" optional:"" help:"Book name or abbreviation"`
	Chapters bool   `help:"List the verse count of every chapter"`
}

func (c *CanonCmd) Run(a *app) error {
	v := versification.KJV()
	if c.Book == "" {
		fmt.Fprintf(a.out, "%d books, %d chapters, %d verses\n",
			v.BooksInBible(), v.ChaptersInBible(), v.VersesInBible())
		return nil
	}
	n, err := v.BookNumber(c.Book)
	if err != nil {
		return err
	}
	b, err := v.Book(n)
	if err != nil {
		return err
	}
	verses, err := v.VersesInBook(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d %s (%s, OSIS %s): %d chapters, %d verses\n",
		n, b.Name, b.Short, b.OSIS, len(b.Chapters), verses)
	if c.Chapters {
		for i, count := range b.Chapters {
			fmt.Fprintf(a.out, "  %d: %d\n", i+1, count)
		}
	}
	return nil
}

// TallyCmd counts how often each verse is referenced.
type TallyCmd struct {
	Refs  []string `arg:"" help:"One reference list per hit"`
	Order string   `help:"Result order (biblical, tally)" enum:"biblical,tally" default:"tally"`
	Limit int      `help:"Show at most this many verses (0 for all)"`
	Blur  int      `help:"Widen every hit by this many verses within its chapter"`
}

func (c *TallyCmd) Run(a *app) error {
	t := passage.NewTally()
	for _, refs := range c.Refs {
		if err := validation.ValidateRefs(refs); err != nil {
			return err
		}
		p, err := a.refs.Parse(refs, passage.KindRanged)
		if err != nil {
			return err
		}
		if err := t.AddAll(p); err != nil {
			return err
		}
	}
	if c.Blur > 0 {
		if err := t.Blur(c.Blur, passage.RestrictChapter); err != nil {
			return err
		}
	}
	if c.Order == "biblical" {
		fmt.Fprintln(a.out, t.NameLimit(c.Limit))
		return nil
	}
	if err := t.SetOrder(passage.OrderTally); err != nil {
		return err
	}
	fmt.Fprintln(a.out, t.NameAndTallyLimit(c.Limit))
	return nil
}

// EncodeCmd writes the binary form of a passage.
type EncodeCmd struct {
	Refs        []string `arg:"" help:"References"`
	Compression string   `help:"Compress the encoding (zip, lzss, gzip, xz)"`
	Out         string   `short:"o" help:"Write raw bytes to this file instead of hex to stdout" type:"path"`
}

func (c *EncodeCmd) Run(a *app) error {
	p, err := a.parse(c.Refs, "")
	if err != nil {
		return err
	}
	data, err := passage.Marshal(p)
	if err != nil {
		return err
	}
	if c.Compression != "" {
		t, err := compress.ParseType(c.Compression)
		if err != nil {
			return err
		}
		comp, err := compress.New(t)
		if err != nil {
			return err
		}
		raw := len(data)
		if data, err = comp.Compress(data); err != nil {
			return err
		}
		logging.CompressionEvent(a.ctx, t.String(), raw, len(data))
	}
	if c.Out != "" {
		if err := validation.ValidatePath(c.Out); err != nil {
			return err
		}
		if err := os.WriteFile(c.Out, data, 0644); err != nil {
			return errors.NewIO("write", c.Out, err)
		}
		return nil
	}
	fmt.Fprintln(a.out, hex.EncodeToString(data))
	return nil
}

// DecodeCmd reads a binary verse set.
type DecodeCmd struct {
	Data        string `arg:"" optional:"" help:"Hex encoded verse set"`
	In          string `short:"i" help:"Read raw bytes from this file" type:"existingfile"`
	Compression string `help:"Compression of the input (zip, lzss, bzip2, gzip, xz, auto)"`
	Kind        string `help:"Passage kind (ranged, bitwise, tally)"`
}

func (c *DecodeCmd) Run(a *app) error {
	var data []byte
	var err error
	switch {
	case c.In != "":
		if data, err = validation.ReadFileLimited(c.In, validation.MaxBinarySize); err != nil {
			return err
		}
	case c.Data != "":
		if data, err = hex.DecodeString(strings.TrimSpace(c.Data)); err != nil {
			return errors.NewArgument("data", c.Data, "expected hex")
		}
	default:
		return errors.NewArgument("data", "", "give hex data or --in")
	}

	if c.Compression != "" {
		var t compress.Type
		if strings.EqualFold(c.Compression, "auto") {
			t, err = compress.Detect(data)
		} else {
			t, err = compress.ParseType(c.Compression)
		}
		if err != nil {
			return err
		}
		comp, err := compress.New(t)
		if err != nil {
			return err
		}
		if data, err = comp.Uncompress(data); err != nil {
			return err
		}
	}

	k, err := a.kind(c.Kind)
	if err != nil {
		return err
	}
	p, err := passage.Unmarshal(data, passage.WithKind(k))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.Name())
	return nil
}

// SaveCmd saves a passage.
type SaveCmd struct {
	Refs []string `arg:"" help:"References"`
	Kind string   `help:"Passage kind to load back as (ranged, bitwise, tally)"`
}

func (c *SaveCmd) Run(a *app) error {
	p, err := a.parse(c.Refs, c.Kind)
	if err != nil {
		return err
	}
	s, err := openStore(a)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.Save(a.ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", rec.ID, rec.Name)
	return nil
}

// LoadCmd loads a passage.
type LoadCmd struct {
	Key  string `arg:"" help:"Passage ID, or a name with --name"`
	Name bool   `help:"Look the passage up by name"`
}

func (c *LoadCmd) Run(a *app) error {
	if !c.Name {
		if err := validation.ValidateID(c.Key); err != nil {
			return err
		}
	}
	s, err := openStore(a)
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		p   passage.Passage
		rec *store.Record
	)
	if c.Name {
		p, rec, err = s.LoadByName(a.ctx, c.Key)
	} else {
		p, rec, err = s.Load(a.ctx, c.Key)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s (%s, %d verses)\n", rec.ID, p.Name(), rec.Kind, p.CountVerses())
	return nil
}

// ListCmd lists saved passages.
type ListCmd struct{}

func (c *ListCmd) Run(a *app) error {
	s, err := openStore(a)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.List(a.ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No saved passages")
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(a.out, "%s  %s  %-7s  %-5s  %5d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Kind, r.Compression, r.Verses, r.Name)
	}
	return nil
}

// DeleteCmd deletes a saved passage.
type DeleteCmd struct {
	ID string `arg:"" help:"Passage ID"`
}

func (c *DeleteCmd) Run(a *app) error {
	if err := validation.ValidateID(c.ID); err != nil {
		return err
	}
	s, err := openStore(a)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(a.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", c.ID)
	return nil
}

// ShowConfigCmd prints the configuration.
type ShowConfigCmd struct{}

func (c *ShowConfigCmd) Run(a *app) error {
	data, err := a.cfg.YAML()
	if err != nil {
		return err
	}
	_, err = a.out.Write(data)
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "versekit version %s\n", version)
	fmt.Fprintf(a.out, "sqlite driver: %s\n", sqlite.Current())
	return nil
}

// run parses args and executes the selected command, writing to stdout.
func run(args []string, stdout io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("versekit"),
		kong.Description("versekit - Bible reference parsing and passage sets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	cfg.InitLogging()

	a := &app{
		ctx:  logging.WithOperationID(context.Background(), uuid.NewString()),
		cfg:  cfg,
		refs: cache.New(cfg.Cache.TTL),
		out:  stdout,
	}
	logging.DebugContext(a.ctx, "command", "name", kctx.Command())
	return kctx.Run(a)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logging.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "versekit:", err)
		os.Exit(1)
	}
}
