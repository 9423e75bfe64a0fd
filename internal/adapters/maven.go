package adapters

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

const defaultMavenSearchURL = "https://search.maven.org/solrsearch/select"

// MavenAdapter manages JVM dependencies: declared state from pom.xml,
// registry metadata from Maven Central's search API, installs through
// the mvn CLI. Coordinates use the "groupId:artifactId" form.
type MavenAdapter struct {
	Executor    ports.ExecutorPort
	ProjectPath string
	SearchURL   string
	Client      *http.Client
}

func NewMavenAdapter(executor ports.ExecutorPort, projectPath string) *MavenAdapter {
	return &MavenAdapter{
		Executor:    executor,
		ProjectPath: projectPath,
		SearchURL:   defaultMavenSearchURL,
		Client:      newRegistryClient(),
	}
}

func (a *MavenAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemMaven
}

type pomProject struct {
	Dependencies struct {
		Dependency []pomDependency `xml:"dependency"`
	} `xml:"dependencies"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

func (a *MavenAdapter) ListInstalled(ctx context.Context) ([]types.PackageRecord, error) {
	manifestPath := filepath.Join(a.ProjectPath, "pom.xml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.PackageRecord{}, nil
		}
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	var project pomProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	records := make([]types.PackageRecord, 0, len(project.Dependencies.Dependency))
	for _, dependency := range project.Dependencies.Dependency {
		version := dependency.Version
		if strings.HasPrefix(version, "${") {
			// Property-interpolated versions need the full maven
			// model to resolve; report the declared form only.
			version = ""
		}
		records = append(records, types.PackageRecord{
			Name:               dependency.GroupID + ":" + dependency.ArtifactID,
			Ecosystem:          types.EcosystemMaven,
			InstalledVersion:   version,
			DeclaredConstraint: dependency.Version,
		})
	}
	return records, nil
}

type mavenSearchResponse struct {
	Response struct {
		Docs []struct {
			ID            string `json:"id"`
			Group         string `json:"g"`
			Artifact      string `json:"a"`
			LatestVersion string `json:"latestVersion"`
			Timestamp     int64  `json:"timestamp"`
		} `json:"docs"`
	} `json:"response"`
}

func (a *MavenAdapter) QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error) {
	group, artifact, ok := splitCoordinate(name)
	if !ok {
		return types.RegistryInfo{}, shared.PackageNotFoundError("maven", name)
	}
	endpoint := a.SearchURL + "?q=" + url.QueryEscape(`g:"`+group+`" AND a:"`+artifact+`"`) + "&rows=1&wt=json"
	var payload mavenSearchResponse
	if err := fetchJSON(ctx, a.Client, "maven", name, endpoint, &payload); err != nil {
		return types.RegistryInfo{}, err
	}
	if len(payload.Response.Docs) == 0 {
		return types.RegistryInfo{}, shared.PackageNotFoundError("maven", name)
	}
	doc := payload.Response.Docs[0]
	info := types.RegistryInfo{
		Name:          doc.Group + ":" + doc.Artifact,
		LatestVersion: doc.LatestVersion,
		Homepage:      "https://central.sonatype.com/artifact/" + doc.Group + "/" + doc.Artifact,
	}
	if doc.Timestamp > 0 {
		at := time.UnixMilli(doc.Timestamp).UTC()
		info.LastUpdated = &at
	}
	return info, nil
}

func (a *MavenAdapter) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	endpoint := a.SearchURL + "?q=" + url.QueryEscape(query) + "&rows=" + strconv.Itoa(max(limit, 1)) + "&wt=json"
	var payload mavenSearchResponse
	if err := fetchJSON(ctx, a.Client, "maven", query, endpoint, &payload); err != nil {
		return nil, err
	}
	results := make([]types.SearchResult, 0, len(payload.Response.Docs))
	for _, doc := range payload.Response.Docs {
		result := types.SearchResult{
			Name:      doc.Group + ":" + doc.Artifact,
			Type:      types.ResultTypeDependency,
			Ecosystem: types.EcosystemMaven,
			Version:   doc.LatestVersion,
			Homepage:  "https://central.sonatype.com/artifact/" + doc.Group + "/" + doc.Artifact,
		}
		if doc.Timestamp > 0 {
			at := time.UnixMilli(doc.Timestamp).UTC()
			result.LastUpdated = &at
		}
		results = append(results, result)
	}
	return results, nil
}

// Dependencies is not served by the central search API without
// fetching and parsing the artifact's pom; report no edges rather
// than guessing.
func (a *MavenAdapter) Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error) {
	return []types.DependencyRef{}, nil
}

func (a *MavenAdapter) Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error) {
	group, artifact, ok := splitCoordinate(name)
	if !ok {
		return types.PackageRecord{}, shared.PackageNotFoundError("maven", name)
	}
	version := strings.TrimPrefix(constraint, "==")
	if version == "" {
		info, err := a.QueryRegistry(ctx, name)
		if err != nil {
			return types.PackageRecord{}, err
		}
		version = info.LatestVersion
	}
	coordinate := group + ":" + artifact + ":" + version
	result, err := a.Executor.ExecuteIn(ctx, a.ProjectPath, "mvn", "dependency:get", "-Dartifact="+coordinate)
	if err != nil {
		return types.PackageRecord{}, shared.RegistryUnavailableError("maven", err)
	}
	if result.ExitCode != 0 {
		return types.PackageRecord{}, shared.OperationError("mvn dependency:get",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, coordinate)))
	}
	log.Ctx(ctx).Info().Str("artifact", coordinate).Msg("maven artifact fetched; declare it in pom.xml to keep it")
	return types.PackageRecord{
		Name:               name,
		Ecosystem:          types.EcosystemMaven,
		InstalledVersion:   version,
		DeclaredConstraint: constraint,
	}, nil
}

// Remove drops the dependency element from pom.xml. The local
// repository copy is shared across projects and is left alone.
func (a *MavenAdapter) Remove(ctx context.Context, name string, force bool) (bool, error) {
	group, artifact, ok := splitCoordinate(name)
	if !ok {
		return false, nil
	}
	manifestPath := filepath.Join(a.ProjectPath, "pom.xml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, shared.ManifestReadError(manifestPath, err)
	}
	content := string(data)
	block, found := findDependencyBlock(content, group, artifact)
	if !found {
		return force, nil
	}
	updated := strings.Replace(content, block, "", 1)
	if err := os.WriteFile(manifestPath, []byte(updated), 0644); err != nil {
		return false, shared.OperationError("pom.xml rewrite", err)
	}
	return true, nil
}

// findDependencyBlock locates the <dependency>...</dependency>
// element declaring the given coordinates.
func findDependencyBlock(content string, group string, artifact string) (string, bool) {
	search := content
	offset := 0
	for {
		start := strings.Index(search, "<dependency>")
		if start < 0 {
			return "", false
		}
		end := strings.Index(search[start:], "</dependency>")
		if end < 0 {
			return "", false
		}
		end += start + len("</dependency>")
		block := content[offset+start : offset+end]
		if strings.Contains(block, "<groupId>"+group+"</groupId>") &&
			strings.Contains(block, "<artifactId>"+artifact+"</artifactId>") {
			return block, true
		}
		search = search[end:]
		offset += end
	}
}

func splitCoordinate(name string) (string, string, bool) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
