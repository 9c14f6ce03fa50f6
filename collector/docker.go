package collector

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"procview/models"
)

// Containers lists Docker containers to enrich the enhanced view.
// Returns nil when no daemon socket is present.
func (s *Service) Containers() []models.ContainerInfo {
	return collectContainers()
}

func collectContainers() []models.ContainerInfo {
	if _, err := os.Stat("/var/run/docker.sock"); err != nil {
		return nil
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Printf("Docker client error: %v", err)
		return nil
	}
	defer cli.Close()

	containerList, err := cli.ContainerList(context.Background(), container.ListOptions{All: true})
	if err != nil {
		log.Printf("Docker list error: %v", err)
		return nil
	}

	result := make([]models.ContainerInfo, 0, len(containerList))
	for _, c := range containerList {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, models.ContainerInfo{
			ID:      c.ID[:12],
			Name:    name,
			Image:   c.Image,
			Status:  c.Status,
			State:   c.State,
			Created: c.Created,
		})
	}
	return result
}
