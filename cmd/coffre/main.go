// Command coffre is a thin batch front end over the vault session layer.
// All semantics live in the library packages; this binary only parses
// arguments, prompts for the passphrase and prints results.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/coffre/coffre/auth"
	"github.com/coffre/coffre/internal/session"
	"github.com/coffre/coffre/internal/vault"
	"github.com/coffre/coffre/krypto"
	"github.com/coffre/coffre/passgen"
)

const cliVersion = "0.1.0"

type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Println(cliVersion)
	case "init":
		err = runInit(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "rm":
		err = runRemove(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "gen":
		err = runGenerate(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	handleError(err)
}

func handleError(err error) {
	if err == nil {
		return
	}

	var uerr userError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, uerr.Error())
		os.Exit(1)
	}
	if errors.Is(err, krypto.ErrDecryptionFailed) {
		fmt.Fprintln(os.Stderr, "incorrect passphrase or corrupted vault")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
	os.Exit(2)
}

func vaultFlag(fs *flag.FlagSet) *string {
	return fs.String("vault", "", "path to the vault file")
}

func parseArgs(fs *flag.FlagSet, args []string, path *string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return userError{msg: "invalid arguments"}
	}
	if path != nil && *path == "" {
		return userError{msg: "missing required flag: --vault"}
	}
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := vaultFlag(fs)
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}

	pw, err := promptPassphrase("Enter master passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassphrase("Confirm master passphrase: ")
	if err != nil {
		return err
	}
	if pw != confirm {
		return userError{msg: "passphrases do not match"}
	}
	if err := auth.ValidatePassphrase(pw); err != nil {
		return userError{msg: err.Error()}
	}
	if s := auth.Estimate(pw); s < auth.Strong {
		fmt.Fprintf(os.Stderr, "warning: passphrase strength is %s\n", s.Label())
	}

	sess, err := session.Create(*path, pw)
	if err != nil {
		return err
	}
	defer sess.Close()

	fmt.Printf("vault created at %s\n", *path)
	return nil
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	path := vaultFlag(fs)
	name := fs.String("name", "", "entry display name")
	login := fs.String("login", "", "login identifier")
	url := fs.String("url", "", "optional URL")
	notes := fs.String("notes", "", "optional notes")
	tags := fs.String("tags", "", "semicolon-separated tags")
	genPw := fs.Bool("gen", false, "generate the password instead of prompting")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}
	if *name == "" || *login == "" {
		return userError{msg: "missing required flags: --name and --login"}
	}

	pw, err := promptPassphrase("Enter master passphrase: ")
	if err != nil {
		return err
	}

	var secret string
	if *genPw {
		secret, err = passgen.Generate(passgen.DefaultOptions())
		if err != nil {
			return err
		}
	} else {
		secret, err = promptPassphrase("Entry password: ")
		if err != nil {
			return err
		}
	}

	sess, err := session.Open(*path, pw)
	if err != nil {
		return err
	}
	defer sess.Close()

	entry := vault.NewEntry(*name, *login, secret)
	entry.URL = *url
	entry.Notes = *notes
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				entry.Tags = append(entry.Tags, tag)
			}
		}
	}

	id, err := sess.Add(entry)
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}

	fmt.Printf("added %s (%s)\n", *name, id)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	path := vaultFlag(fs)
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	return printEntries(sess.Vault().Entries)
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	path := vaultFlag(fs)
	idArg := fs.String("id", "", "entry identifier")
	reveal := fs.Bool("reveal", false, "print the password in cleartext")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}
	id, err := uuid.Parse(*idArg)
	if err != nil {
		return userError{msg: "invalid or missing --id"}
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	entry, err := sess.Get(id)
	if errors.Is(err, session.ErrEntryNotFound) {
		return userError{msg: "entry not found"}
	}
	if err != nil {
		return err
	}

	secret := "***"
	if *reveal {
		secret = entry.Password
	}
	fmt.Printf("name:     %s\n", entry.Name)
	fmt.Printf("login:    %s\n", entry.Login)
	fmt.Printf("password: %s\n", secret)
	if entry.URL != "" {
		fmt.Printf("url:      %s\n", entry.URL)
	}
	if entry.Notes != "" {
		fmt.Printf("notes:    %s\n", entry.Notes)
	}
	if len(entry.Tags) > 0 {
		fmt.Printf("tags:     %s\n", strings.Join(entry.Tags, ";"))
	}
	fmt.Printf("modified: %s\n", entry.ModifiedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runRemove(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	path := vaultFlag(fs)
	idArg := fs.String("id", "", "entry identifier")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}
	id, err := uuid.Parse(*idArg)
	if err != nil {
		return userError{msg: "invalid or missing --id"}
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Delete(id); errors.Is(err, session.ErrEntryNotFound) {
		return userError{msg: "entry not found"}
	} else if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}

	fmt.Println("entry removed")
	return nil
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	path := vaultFlag(fs)
	query := fs.String("query", "", "case-insensitive substring")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := sess.Search(*query)
	if err != nil {
		return err
	}
	return printEntries(entries)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	length := fs.Int("length", 16, "password length")
	noUpper := fs.Bool("no-upper", false, "exclude uppercase letters")
	noLower := fs.Bool("no-lower", false, "exclude lowercase letters")
	noDigits := fs.Bool("no-digits", false, "exclude digits")
	noSymbols := fs.Bool("no-symbols", false, "exclude symbols")
	allowAmbiguous := fs.Bool("allow-ambiguous", false, "keep easily misread characters")
	if err := parseArgs(fs, args, nil); err != nil {
		return err
	}

	pw, err := passgen.Generate(passgen.Options{
		Length:         *length,
		Uppercase:      !*noUpper,
		Lowercase:      !*noLower,
		Digits:         !*noDigits,
		Symbols:        !*noSymbols,
		AvoidAmbiguous: !*allowAmbiguous,
	})
	if err != nil {
		return userError{msg: err.Error()}
	}

	fmt.Println(pw)
	fmt.Fprintf(os.Stderr, "strength: %s\n", auth.Estimate(pw).Label())
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	path := vaultFlag(fs)
	out := fs.String("out", "", "destination CSV file")
	plaintext := fs.Bool("plaintext", false, "emit passwords in cleartext")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}
	if *out == "" {
		return userError{msg: "missing required flag: --out"}
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	if *plaintext {
		fmt.Fprintln(os.Stderr, "warning: exporting passwords in cleartext")
	}
	if err := sess.Export(*out, *plaintext); err != nil {
		return err
	}

	fmt.Printf("exported to %s\n", *out)
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := vaultFlag(fs)
	in := fs.String("in", "", "source CSV file")
	if err := parseArgs(fs, args, path); err != nil {
		return err
	}
	if *in == "" {
		return userError{msg: "missing required flag: --in"}
	}

	sess, err := openSession(*path)
	if err != nil {
		return err
	}
	defer sess.Close()

	n, err := sess.Import(*in)
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}

	fmt.Printf("imported %d entries\n", n)
	return nil
}

func openSession(path string) (*session.Session, error) {
	pw, err := promptPassphrase("Enter master passphrase: ")
	if err != nil {
		return nil, err
	}
	return session.Open(path, pw)
}

func printEntries(entries []vault.Entry) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOGIN\tURL")
	for i := range entries {
		e := &entries[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Login, e.URL)
	}
	return w.Flush()
}

func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(pw), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: coffre <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version")
	fmt.Fprintln(os.Stderr, "  init    --vault <file>")
	fmt.Fprintln(os.Stderr, "  add     --vault <file> --name <name> --login <login> [--url u] [--notes n] [--tags a;b] [--gen]")
	fmt.Fprintln(os.Stderr, "  list    --vault <file>")
	fmt.Fprintln(os.Stderr, "  show    --vault <file> --id <uuid> [--reveal]")
	fmt.Fprintln(os.Stderr, "  rm      --vault <file> --id <uuid>")
	fmt.Fprintln(os.Stderr, "  search  --vault <file> --query <text>")
	fmt.Fprintln(os.Stderr, "  gen     [--length n] [--no-upper] [--no-lower] [--no-digits] [--no-symbols] [--allow-ambiguous]")
	fmt.Fprintln(os.Stderr, "  export  --vault <file> --out <csv> [--plaintext]")
	fmt.Fprintln(os.Stderr, "  import  --vault <file> --in <csv>")
}
