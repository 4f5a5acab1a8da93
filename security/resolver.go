package security

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-rmw/core"
)

var ErrAttributeUnresolved = errors.New("security: attribute unresolved")

// UnresolvedAttributeError names the mandatory attribute that stopped a
// resolution and the candidates that were tried.
type UnresolvedAttributeError struct {
	Attribute  Attribute
	Candidates []string
	Cause      error
}

func (e *UnresolvedAttributeError) Error() string {
	if e == nil {
		return ErrAttributeUnresolved.Error()
	}
	message := ErrAttributeUnresolved.Error() + ": " + string(e.Attribute)
	if e.Cause != nil {
		message += ": " + e.Cause.Error()
	}
	return message
}

func (e *UnresolvedAttributeError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrAttributeUnresolved
	}
	return errors.Join(ErrAttributeUnresolved, e.Cause)
}

type Request struct {
	SupportsPKCS11 bool
	// Prefix is prepended to file paths, e.g. "file://". It may be empty.
	Prefix        string
	RootDirectory string
}

type Config struct {
	FileSystem FileSystem
	Logger     core.Logger
	Rules      []Rule
}

type Resolver struct {
	fs     FileSystem
	logger core.Logger
	rules  []Rule
}

func NewResolver(cfg Config) *Resolver {
	fsys := cfg.FileSystem
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Resolver{
		fs:     fsys,
		logger: glog.Ensure(cfg.Logger),
		rules:  cloneRules(rules),
	}
}

func DefaultResolver() *Resolver {
	return NewResolver(Config{})
}

// Resolve builds the credential map for the request root directory using
// the operating system file system.
func Resolve(supportsPKCS11 bool, prefix string, rootDirectory string) (CredentialMap, error) {
	return DefaultResolver().Resolve(context.Background(), Request{
		SupportsPKCS11: supportsPKCS11,
		Prefix:         prefix,
		RootDirectory:  rootDirectory,
	})
}

// ResolveFiles resolves plain files only.
func ResolveFiles(prefix string, rootDirectory string) (CredentialMap, error) {
	return Resolve(false, prefix, rootDirectory)
}

// Resolve walks the rules in order. Every mandatory attribute must resolve
// or no map is returned; optional attributes are added when present.
// Failures are only logged at debug level; the caller owns the severity.
func (r *Resolver) Resolve(ctx context.Context, req Request) (CredentialMap, error) {
	if r == nil {
		return nil, core.InvalidArgument("security: resolver is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	root := strings.TrimSpace(req.RootDirectory)
	if root == "" {
		return nil, core.InvalidArgument("security: root directory is required")
	}
	logger := r.logger.WithContext(ctx)

	resolved := CredentialMap{}
	for _, rule := range r.rules {
		value, ok, lastErr := r.resolveRule(logger, req, root, rule)
		if ok {
			resolved[string(rule.Attribute)] = value
			continue
		}
		if rule.Optional {
			logger.Debug("optional security attribute not found", "attribute", string(rule.Attribute))
			continue
		}
		names := candidateNames(rule.Candidates)
		cause := &UnresolvedAttributeError{Attribute: rule.Attribute, Candidates: names, Cause: lastErr}
		logger.Debug("security attribute unresolved",
			"attribute", string(rule.Attribute),
			"root_directory", root,
			"candidates", names,
		)
		return nil, core.ResolutionFailed("security: failed to resolve "+string(rule.Attribute), cause, map[string]any{
			"attribute":      string(rule.Attribute),
			"candidates":     names,
			"root_directory": root,
		})
	}

	digest, err := resolved.Digest()
	if err != nil {
		return nil, err
	}
	logger.Info("security files resolved",
		"root_directory", root,
		"attributes", len(resolved),
		"digest", digest,
	)
	return resolved, nil
}

func (r *Resolver) resolveRule(logger core.Logger, req Request, root string, rule Rule) (string, bool, error) {
	var lastErr error
	for _, candidate := range rule.Candidates {
		path := filepath.Join(root, candidate.Filename)
		var (
			value string
			ok    bool
			err   error
		)
		switch candidate.Representation {
		case PKCS11URI:
			value, ok, err = r.processPKCS11(req.SupportsPKCS11, path)
		default:
			value, ok, err = r.processFile(req.Prefix, path)
		}
		if ok {
			return value, true, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			lastErr = err
		}
		logger.Debug("security candidate rejected",
			"attribute", string(rule.Attribute),
			"candidate", candidate.Filename,
			"representation", candidate.Representation.String(),
		)
	}
	return "", false, lastErr
}

func (r *Resolver) processFile(prefix string, path string) (string, bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return "", false, err
	}
	if !info.Mode().IsRegular() {
		return "", false, nil
	}
	return prefix + filepath.ToSlash(path), true, nil
}

func (r *Resolver) processPKCS11(supported bool, path string) (string, bool, error) {
	if !supported {
		return "", false, nil
	}
	file, err := r.fs.Open(path)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	token, err := firstToken(file)
	if err != nil {
		return "", false, err
	}
	if !strings.HasPrefix(token, pkcs11Scheme) {
		return "", false, nil
	}
	return token, true, nil
}

// firstToken returns the first whitespace-delimited token of r, or "" when r
// holds only whitespace. The token length is not bounded.
func firstToken(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	var token strings.Builder
	for {
		ch, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return token.String(), nil
			}
			return "", err
		}
		if unicode.IsSpace(ch) {
			if token.Len() > 0 {
				return token.String(), nil
			}
			continue
		}
		token.WriteRune(ch)
	}
}
