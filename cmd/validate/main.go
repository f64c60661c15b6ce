package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/ride-engine/pkg/conditionals"
	"github.com/jwebster45206/ride-engine/pkg/dialogue"
)

func main() {
	extraHooks := flag.String("hooks", "", "comma-separated gameplay hooks the host handles beyond ACCEPT_PICKUP and DECLINE_PICKUP")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-hooks PAY_TIP,...] <profile.json|profile.yaml|dir>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	failed := 0
	validator := &ProfileValidator{hooks: parseHooks(*extraHooks)}
	for _, f := range files {
		if err := validator.validateFile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}

	fmt.Printf("%d profile file(s) valid!\n", len(files))
}

// parseHooks adds a comma-separated list of hook kinds to the built-in ones.
func parseHooks(list string) dialogue.HookSet {
	hooks := dialogue.BuiltinHooks()
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			hooks.Add(dialogue.HookKind(k))
		}
	}
	return hooks
}

// collectFiles expands directory arguments into the profile files they hold.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isProfileExt(filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return files, nil
}

type ProfileValidator struct {
	hooks  dialogue.HookSet // nil means the built-in hooks only
	errors []string
}

func (v *ProfileValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if !isProfileExt(ext) {
		return fmt.Errorf("profile file must have .json, .yaml or .yml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidID(nameWithoutExt) {
		return fmt.Errorf("profile filename '%s' must be lowercase snake_case (e.g., night_nurse.yaml, not NightNurse.yaml)", baseName)
	}

	p, err := dialogue.LoadProfile(filename)
	if err != nil {
		return err
	}

	hooks := v.hooks
	if hooks == nil {
		hooks = dialogue.BuiltinHooks()
	}
	v.errors = nil
	if err := p.ValidateHooks(hooks); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			v.addError(line)
		}
	}
	v.validateProfile(p)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *ProfileValidator) validateProfile(p *dialogue.Profile) {
	v.validateIDFormat("profile id", p.ID)
	for _, s := range []*dialogue.Set{p.Pickup, p.Ride} {
		if s == nil {
			continue
		}
		v.validateSet(s)
	}
	if p.Pickup != nil && len(p.Pickup.RideTriggers) > 0 {
		v.addError(fmt.Sprintf("set %s: ride triggers only apply to the ride set", p.Pickup.ID))
	}
}

func (v *ProfileValidator) validateSet(s *dialogue.Set) {
	for _, n := range s.Nodes {
		v.validateIDFormat("node id", n.ID)
		for _, c := range n.Choices {
			for _, cond := range c.Conditions {
				if !isValidVariableName(cond.Key) {
					v.addError(fmt.Sprintf("set %s node %s: condition key '%s' should be lowercase snake_case", s.ID, n.ID, cond.Key))
				}
			}
			for _, e := range c.Effects {
				if e.Type == dialogue.EffectSetVar && !isValidVariableName(e.Key) {
					v.addError(fmt.Sprintf("set %s node %s: variable '%s' should be lowercase snake_case", s.ID, n.ID, e.Key))
				}
			}
		}
	}
}

func (v *ProfileValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ProfileValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validVarRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidVariableName(name string) bool {
	switch name {
	case conditionals.KeyIsGhost, conditionals.KeyAccepted:
		return true
	}
	return validVarRegex.MatchString(name)
}

func isProfileExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
