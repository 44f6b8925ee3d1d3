package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"sigs.k8s.io/yaml"
)

// IndexResult is the result of an index command.
type IndexResult struct {
	Root       string       `json:"root"`
	Keys       int          `json:"keys"`
	Candidates int          `json:"candidates"`
	Entries    []IndexEntry `json:"entries"`
}

// IndexEntry is one ticker and the file selected for it.
type IndexEntry struct {
	Ticker   string `json:"ticker"`
	Path     string `json:"path"`
	Category string `json:"category,omitempty"`
}

// ResolveResult is the result of a resolve command.
type ResolveResult struct {
	Ticker      string `json:"ticker"`
	Key         string `json:"key"`
	Path        string `json:"path,omitempty"`
	Status      string `json:"status"`
	Fallback    bool   `json:"fallback"`
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
}

// InspectResult is the result of an inspect command.
type InspectResult struct {
	Images []ImageDetails `json:"images"`
}

// ImageDetails describes one logo file.
type ImageDetails struct {
	Ticker string `json:"ticker"`
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Size   int64  `json:"size"`
	Error  string `json:"error,omitempty"`
}

// InfoResult is the result of an info command.
type InfoResult struct {
	Server    string            `json:"server"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints,omitempty"`
	Health    string            `json:"health"`
	Keys      int               `json:"keys"`
}

// outputResult writes the result to w in the specified format.
func outputResult(w io.Writer, result interface{}, format string) error {
	switch format {
	case "json":
		return outputJSON(w, result)
	case "yaml":
		return outputYAML(w, result)
	case "table", "":
		return outputTable(w, result)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func outputJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(w io.Writer, result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func outputTable(out io.Writer, result interface{}) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch r := result.(type) {
	case IndexResult:
		return outputIndexTable(w, r)
	case ResolveResult:
		return outputResolveTable(w, r)
	case InspectResult:
		return outputInspectTable(w, r)
	case InfoResult:
		return outputInfoTable(w, r)
	default:
		// Fall back to JSON for unknown types
		return outputJSON(out, result)
	}
}

func outputIndexTable(w *tabwriter.Writer, r IndexResult) error {
	fmt.Fprintf(w, "ROOT\t%s\n", r.Root)
	fmt.Fprintf(w, "KEYS\t%d\n", r.Keys)
	fmt.Fprintf(w, "CANDIDATES\t%d\n\n", r.Candidates)

	fmt.Fprintln(w, "TICKER\tCATEGORY\tPATH")
	for _, e := range r.Entries {
		category := e.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Ticker, category, e.Path)
	}
	return nil
}

func outputResolveTable(w *tabwriter.Writer, r ResolveResult) error {
	fmt.Fprintf(w, "TICKER:\t%s\n", r.Ticker)
	fmt.Fprintf(w, "KEY:\t%s\n", r.Key)
	fmt.Fprintf(w, "STATUS:\t%s\n", r.Status)
	if r.Path != "" {
		fmt.Fprintf(w, "PATH:\t%s\n", r.Path)
		fmt.Fprintf(w, "CONTENT TYPE:\t%s\n", r.ContentType)
		fmt.Fprintf(w, "FALLBACK:\t%t\n", r.Fallback)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "ERROR:\t%s\n", r.Error)
	}
	return nil
}

func outputInspectTable(w *tabwriter.Writer, r InspectResult) error {
	fmt.Fprintln(w, "TICKER\tFORMAT\tWIDTH\tHEIGHT\tSIZE\tPATH")
	for _, img := range r.Images {
		if img.Error != "" {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%d\t%s (%s)\n", img.Ticker, img.Size, img.Path, img.Error)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			img.Ticker, img.Format, img.Width, img.Height, img.Size, img.Path)
	}
	return nil
}

func outputInfoTable(w *tabwriter.Writer, r InfoResult) error {
	fmt.Fprintf(w, "SERVER:\t%s\n", r.Server)
	fmt.Fprintf(w, "NAME:\t%s\n", r.Name)
	fmt.Fprintf(w, "VERSION:\t%s\n", r.Version)
	fmt.Fprintf(w, "HEALTH:\t%s\n", r.Health)
	fmt.Fprintf(w, "KEYS:\t%d\n", r.Keys)

	if len(r.Endpoints) > 0 {
		fmt.Fprintln(w, "\nENDPOINT\tPATH")
		for _, name := range slices.Sorted(maps.Keys(r.Endpoints)) {
			fmt.Fprintf(w, "%s\t%s\n", name, r.Endpoints[name])
		}
	}
	return nil
}
