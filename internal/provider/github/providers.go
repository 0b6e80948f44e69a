package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/format/table"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/provider"
)

const tabWidth = 4

// Set returns the providers for account's repository tree.
func (c *Client) Set(account string) provider.Set {
	return provider.Set{
		Root:    provider.RootFunc(func(ctx context.Context) ([]nav.Record, error) { return c.Repositories(ctx, account) }),
		Commits: provider.ChildFunc(c.Commits),
		Files:   provider.ChildFunc(c.FileChanges),
		Content: provider.ChildFunc(c.FileContent),
	}
}

// Repositories lists account's public repositories.
func (c *Client) Repositories(ctx context.Context, account string) ([]nav.Record, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, fmt.Errorf("account is required")
	}
	repos, err := c.repositories(ctx, account)
	if err != nil {
		return nil, err
	}
	records := make([]nav.Record, 0, len(repos))
	for _, r := range repos {
		locator := r.FullName
		if locator == "" {
			locator = account + "/" + r.Name
		}
		records = append(records, nav.Record{Locator: locator, Label: r.Name})
	}
	return records, nil
}

// Commits lists the recent commits of the repository at locator.
func (c *Client) Commits(ctx context.Context, locator string) ([]nav.Record, error) {
	repo, err := parseRepo(locator)
	if err != nil {
		return nil, err
	}
	commits, err := c.commits(ctx, repo)
	if err != nil {
		return nil, err
	}
	records := make([]nav.Record, 0, len(commits))
	refs := make([]commitRef, 0, len(commits))
	for _, cm := range commits {
		ref := commitRef{repo: repo, sha: cm.SHA}
		refs = append(refs, ref)
		records = append(records, nav.Record{Locator: ref.String(), Label: commitLabel(cm)})
	}
	c.warm(ctx, refs)
	return records, nil
}

// FileChanges lists the files touched by the commit at locator.
func (c *Client) FileChanges(ctx context.Context, locator string) ([]nav.Record, error) {
	ref, err := parseCommit(locator)
	if err != nil {
		return nil, err
	}
	detail, err := c.commitDetail(ctx, ref)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(detail.Files))
	for i, f := range detail.Files {
		rows[i] = []string{f.Status, fmt.Sprintf("+%d", f.Additions), fmt.Sprintf("-%d", f.Deletions), f.Filename}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignLeft})
	records := make([]nav.Record, len(detail.Files))
	for i, f := range detail.Files {
		records[i] = nav.Record{
			Locator: fileRef{commit: ref, path: f.Filename}.String(),
			Label:   labels[i],
		}
	}
	return records, nil
}

// FileContent returns the patch lines of the file at locator. The records are
// leaves.
func (c *Client) FileContent(ctx context.Context, locator string) ([]nav.Record, error) {
	ref, err := parseFile(locator)
	if err != nil {
		return nil, err
	}
	detail, err := c.commitDetail(ctx, ref.commit)
	if err != nil {
		return nil, err
	}
	for _, f := range detail.Files {
		if f.Filename != ref.path {
			continue
		}
		if f.Patch == "" {
			return nil, nil
		}
		lines := strings.Split(strings.TrimRight(f.Patch, "\n"), "\n")
		records := make([]nav.Record, len(lines))
		for i, line := range lines {
			records[i] = nav.Record{Label: expandTabs(strings.TrimRight(line, "\r"))}
		}
		return records, nil
	}
	return nil, fmt.Errorf("file %q not found in %s", ref.path, ref.commit)
}

func commitLabel(cm commitSummary) string {
	sha := cm.SHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	subject, _, _ := strings.Cut(cm.Commit.Message, "\n")
	return sha + " - " + strings.TrimSpace(subject)
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
