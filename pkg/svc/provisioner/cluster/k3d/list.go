package k3dprovisioner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	clustercommand "github.com/k3d-io/k3d/v5/cmd/cluster"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // k3d writes list output straight to os.Stdout
var listMutex sync.Mutex

const (
	roleServer = "server"
	roleAgent  = "agent"
)

// ClusterSummary describes one existing k3d cluster.
type ClusterSummary struct {
	Name    string `json:"name"    yaml:"name"`
	Servers int    `json:"servers" yaml:"servers"`
	Agents  int    `json:"agents"  yaml:"agents"`
}

// List returns the clusters known to k3d with their server and agent counts.
func (p *Provisioner) List(ctx context.Context) ([]ClusterSummary, error) {
	originalLogOutput := logrus.StandardLogger().Out

	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(originalLogOutput)

	listMutex.Lock()

	originalStdout := os.Stdout

	pipeReader, pipeWriter, err := os.Pipe()
	if err != nil {
		listMutex.Unlock()

		return nil, fmt.Errorf("cluster list: create stdout pipe: %w", err)
	}

	var (
		captured bytes.Buffer
		drained  = make(chan error, 1)
	)

	go func() {
		_, copyErr := io.Copy(&captured, pipeReader)
		drained <- copyErr
	}()

	os.Stdout = pipeWriter

	output, runErr := p.runListCommand(ctx)

	_ = pipeWriter.Close()
	os.Stdout = originalStdout

	listMutex.Unlock()

	copyErr := <-drained
	_ = pipeReader.Close()

	if copyErr != nil {
		logrus.WithError(copyErr).Debug("failed to drain stdout pipe when listing k3d clusters")
	}

	if runErr != nil {
		return nil, fmt.Errorf("cluster list: %w", runErr)
	}

	if output == "" {
		output = strings.TrimSpace(captured.String())
	}

	return parseClusterNodes(output)
}

func (p *Provisioner) runListCommand(ctx context.Context) (string, error) {
	res, runErr := p.listRunner.Run(ctx, clustercommand.NewCmdClusterList(), []string{"--output", "json"})
	if runErr != nil {
		return "", fmt.Errorf("run k3d cluster list: %w", runErr)
	}

	return strings.TrimSpace(res.Stdout), nil
}

// parseClusterNodes decodes k3d's JSON list output.
func parseClusterNodes(output string) ([]ClusterSummary, error) {
	if output == "" {
		return nil, nil
	}

	var entries []struct {
		Name  string `json:"name"`
		Nodes []struct {
			Role string `json:"role"`
		} `json:"nodes"`
	}

	decodeErr := json.Unmarshal([]byte(output), &entries)
	if decodeErr != nil {
		return nil, fmt.Errorf("cluster list: parse output: %w", decodeErr)
	}

	clusters := make([]ClusterSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}

		summary := ClusterSummary{Name: entry.Name}

		for _, node := range entry.Nodes {
			switch node.Role {
			case roleServer:
				summary.Servers++
			case roleAgent:
				summary.Agents++
			}
		}

		clusters = append(clusters, summary)
	}

	return clusters, nil
}
