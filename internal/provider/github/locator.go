package github

import (
	"fmt"
	"strings"
)

// Locators:
//
//	repository  owner/name
//	commit      owner/name@sha
//	file        owner/name@sha:path

type repoRef struct {
	owner, name string
}

func (r repoRef) String() string { return r.owner + "/" + r.name }

type commitRef struct {
	repo repoRef
	sha  string
}

func (c commitRef) String() string { return c.repo.String() + "@" + c.sha }

type fileRef struct {
	commit commitRef
	path   string
}

func (f fileRef) String() string { return f.commit.String() + ":" + f.path }

func parseRepo(locator string) (repoRef, error) {
	owner, name, ok := strings.Cut(locator, "/")
	if !ok || owner == "" || name == "" || strings.ContainsAny(name, "/@") {
		return repoRef{}, fmt.Errorf("invalid repository locator %q", locator)
	}
	return repoRef{owner: owner, name: name}, nil
}

func parseCommit(locator string) (commitRef, error) {
	repo, sha, ok := strings.Cut(locator, "@")
	if !ok || sha == "" || strings.Contains(sha, ":") {
		return commitRef{}, fmt.Errorf("invalid commit locator %q", locator)
	}
	r, err := parseRepo(repo)
	if err != nil {
		return commitRef{}, err
	}
	return commitRef{repo: r, sha: sha}, nil
}

func parseFile(locator string) (fileRef, error) {
	repo, rest, ok := strings.Cut(locator, "@")
	if !ok {
		return fileRef{}, fmt.Errorf("invalid file locator %q", locator)
	}
	sha, path, ok := strings.Cut(rest, ":")
	if !ok || path == "" {
		return fileRef{}, fmt.Errorf("invalid file locator %q", locator)
	}
	c, err := parseCommit(repo + "@" + sha)
	if err != nil {
		return fileRef{}, err
	}
	return fileRef{commit: c, path: path}, nil
}
