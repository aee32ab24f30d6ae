package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/topology/internal/topology"
)

type (
	// LoadRequestDTO is the request body for the LoadTopology operation.
	LoadRequestDTO struct {
		Path string `json:"path" minLength:"1" doc:"Path of the topology JSON file on the server"`
	}

	// LoadResponseDTO is the response body for the LoadTopology operation.
	LoadResponseDTO struct {
		ID string `json:"id" doc:"Id of the loaded topology, empty when the document has none"`
	}

	// ListResponseDTO is the response body for the ListTopologies operation.
	ListResponseDTO struct {
		IDs []string `json:"ids"`
	}

	// SaveResponseDTO is the response body for the SaveTopology operation.
	SaveResponseDTO struct {
		Path string `json:"path" doc:"Path of the written file"`
	}

	// DevicesResponseDTO is the response body for the ListDevices operation.
	DevicesResponseDTO struct {
		Devices []topology.Device `json:"devices"`
	}
)

type (
	// LoadInput is the huma input for the LoadTopology operation.
	LoadInput struct {
		Body LoadRequestDTO
	}

	// LoadOutput is the huma output for the LoadTopology operation.
	LoadOutput struct {
		Body LoadResponseDTO
	}

	// ListOutput is the huma output for the ListTopologies operation.
	ListOutput struct {
		Body ListResponseDTO
	}

	// TopologyIDInput identifies a topology by path parameter.
	TopologyIDInput struct {
		ID string `path:"id" doc:"Topology id"`
	}

	// SaveOutput is the huma output for the SaveTopology operation.
	SaveOutput struct {
		Body SaveResponseDTO
	}

	// DevicesInput is the huma input for the ListDevices operation.
	DevicesInput struct {
		ID          string `path:"id" doc:"Topology id"`
		NetlistNode string `query:"netlist_node" doc:"Only list devices with a pin on this netlist node. Present but empty filters on the empty node id."`

		filtered bool
	}

	// DevicesOutput is the huma output for the ListDevices operation.
	DevicesOutput struct {
		Body DevicesResponseDTO
	}
)

// Resolve records whether netlist_node was sent at all, so an empty value still filters.
func (i *DevicesInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.filtered = u.Query().Has("netlist_node")
	return nil
}

// TopologyHandler handles HTTP requests for the topology registry.
type TopologyHandler struct {
	registry *topology.Registry
}

// NewTopologyHandler creates a new TopologyHandler instance and registers its operations.
func NewTopologyHandler(api huma.API, registry *topology.Registry) *TopologyHandler {
	h := &TopologyHandler{registry: registry}

	huma.Register(api, huma.Operation{
		OperationID:   "load-topology",
		Method:        http.MethodPost,
		Path:          "/topologies",
		Summary:       "Load a topology from a JSON file",
		Tags:          []string{"topologies"},
		DefaultStatus: http.StatusCreated,
	}, h.handleLoad)

	huma.Register(api, huma.Operation{
		OperationID: "list-topologies",
		Method:      http.MethodGet,
		Path:        "/topologies",
		Summary:     "List the ids of loaded topologies",
		Tags:        []string{"topologies"},
	}, h.handleList)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-topology",
		Method:        http.MethodDelete,
		Path:          "/topologies/{id}",
		Summary:       "Remove a topology from memory",
		Tags:          []string{"topologies"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleDelete)

	huma.Register(api, huma.Operation{
		OperationID: "save-topology",
		Method:      http.MethodPost,
		Path:        "/topologies/{id}/save",
		Summary:     "Write a topology to <id>.json",
		Tags:        []string{"topologies"},
	}, h.handleSave)

	huma.Register(api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/topologies/{id}/devices",
		Summary:     "List the devices of a topology",
		Description: "Lists every device in component order. When netlist_node is present, even empty, only devices connected to that node are listed.",
		Tags:        []string{"devices"},
	}, h.handleDevices)

	return h
}

// handleLoad handles the load-topology operation.
func (h *TopologyHandler) handleLoad(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	doc, err := h.registry.Load(ctx, input.Body.Path)
	if err != nil {
		return nil, toHTTPError("failed to load topology", err)
	}

	id, _ := doc.ID()
	slog.Info("Topology loaded", "path", input.Body.Path, "topology_id", id)

	return &LoadOutput{Body: LoadResponseDTO{ID: id}}, nil
}

// handleList handles the list-topologies operation.
func (h *TopologyHandler) handleList(_ context.Context, _ *struct{}) (*ListOutput, error) {
	return &ListOutput{Body: ListResponseDTO{IDs: h.registry.IDs()}}, nil
}

// handleDelete handles the delete-topology operation.
func (h *TopologyHandler) handleDelete(_ context.Context, input *TopologyIDInput) (*struct{}, error) {
	if err := h.registry.Delete(input.ID); err != nil {
		return nil, toHTTPError("failed to delete topology", err)
	}

	slog.Info("Topology deleted", "topology_id", input.ID)
	return nil, nil
}

// handleSave handles the save-topology operation.
func (h *TopologyHandler) handleSave(ctx context.Context, input *TopologyIDInput) (*SaveOutput, error) {
	path, err := h.registry.Save(ctx, input.ID)
	if err != nil {
		return nil, toHTTPError("failed to save topology", err)
	}

	slog.Info("Topology saved", "topology_id", input.ID, "path", path)
	return &SaveOutput{Body: SaveResponseDTO{Path: path}}, nil
}

// handleDevices handles the list-devices operation.
func (h *TopologyHandler) handleDevices(_ context.Context, input *DevicesInput) (*DevicesOutput, error) {
	var (
		devices []topology.Device
		err     error
	)
	if input.filtered {
		devices, err = h.registry.DevicesOnNetlistNode(input.ID, input.NetlistNode)
	} else {
		devices, err = h.registry.Devices(input.ID)
	}
	if err != nil {
		return nil, toHTTPError("failed to list devices", err)
	}

	return &DevicesOutput{Body: DevicesResponseDTO{Devices: devices}}, nil
}

// toHTTPError maps registry errors onto HTTP status codes.
func toHTTPError(msg string, err error) error {
	switch {
	case errors.Is(err, topology.ErrNotFound):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, topology.ErrParse):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, topology.ErrDuplicate):
		return huma.Error409Conflict(msg, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable(msg, err)
	default:
		slog.Error(msg, "error", err)
		return huma.Error500InternalServerError(msg, err)
	}
}
