package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/graph"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type IModuleService interface {
	ImportGraph(ctx context.Context, moduleId uuid.UUID, document []byte) (*dto.ImportGraphResponse, error)
	Publish(ctx context.Context, moduleId uuid.UUID) (*dto.PublishModuleResponse, error)
	ExportDOT(ctx context.Context, moduleId uuid.UUID) (string, error)
}

type moduleService struct {
	uowFactory unitofwork.RepositoryFactory
	graphs     IGraphStore
	logger     logger.ILogger
}

func NewModuleService(uowFactory unitofwork.RepositoryFactory, graphs IGraphStore, log logger.ILogger) IModuleService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &moduleService{
		uowFactory: uowFactory,
		graphs:     graphs,
		logger:     log,
	}
}

// ParseGraphDocument decodes the YAML authoring format into nodes for
// moduleId. Unknown fields and unknown score dimensions are rejected.
func ParseGraphDocument(moduleId uuid.UUID, document []byte) ([]*entity.DecisionNode, error) {
	var doc dto.GraphDocument
	dec := yaml.NewDecoder(bytes.NewReader(document))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, errors.New("graph document has no nodes")
	}

	// without any explicit sortOrder the document order decides the entry node
	explicitOrder := false
	for _, n := range doc.Nodes {
		if n.SortOrder != 0 {
			explicitOrder = true
			break
		}
	}

	nodeKeys := make(map[string]bool, len(doc.Nodes))
	nodes := make([]*entity.DecisionNode, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.Key == "" {
			return nil, fmt.Errorf("node #%d has no key", i+1)
		}
		if nodeKeys[n.Key] {
			return nil, fmt.Errorf("duplicate node key %q", n.Key)
		}
		nodeKeys[n.Key] = true

		sortOrder := n.SortOrder
		if !explicitOrder {
			sortOrder = i
		}

		node := &entity.DecisionNode{
			Id:               uuid.New(),
			ModuleId:         moduleId,
			NodeKey:          n.Key,
			PromptText:       n.Prompt,
			TimerSeconds:     n.TimerSeconds,
			AiPromptTemplate: n.AiPromptTemplate,
			SortOrder:        sortOrder,
			ContextDocuments: n.ContextDocuments,
			PreVideoUrl:      n.PreVideoUrl,
			Options:          make([]*entity.NodeOption, 0, len(n.Options)),
		}

		optionKeys := make(map[string]bool, len(n.Options))
		for j, o := range n.Options {
			if o.Key == "" {
				return nil, fmt.Errorf("node %q: option #%d has no key", n.Key, j+1)
			}
			if optionKeys[o.Key] {
				return nil, fmt.Errorf("node %q: duplicate option key %q", n.Key, o.Key)
			}
			optionKeys[o.Key] = true

			delta, err := scoring.ParseDelta(o.ScoreImpacts)
			if err != nil {
				return nil, fmt.Errorf("node %q option %q: %w", n.Key, o.Key, err)
			}
			next := o.NextNodeKey
			if next != nil && *next == "" {
				next = nil
			}
			node.Options = append(node.Options, &entity.NodeOption{
				Id:                  uuid.New(),
				DecisionNodeId:      node.Id,
				OptionKey:           o.Key,
				Label:               o.Label,
				Description:         o.Description,
				ScoreImpacts:        delta,
				NextNodeKey:         next,
				ConsequenceVideoUrl: o.ConsequenceVideoUrl,
				SortOrder:           j,
			})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// ImportGraph replaces the module's nodes. Published modules are frozen.
func (s *moduleService) ImportGraph(ctx context.Context, moduleId uuid.UUID, document []byte) (*dto.ImportGraphResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	module, err := loadModule(ctx, uow, moduleId)
	if err != nil {
		return nil, err
	}
	if module.IsPublished() {
		return nil, apperr.Conflict("Published modules cannot be re-imported")
	}

	nodes, err := ParseGraphDocument(module.Id, document)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DecisionNodeRepository().DeleteByModuleId(ctx, module.Id); err != nil {
		return nil, err
	}
	options := 0
	for _, n := range nodes {
		options += len(n.Options)
		if err := uow.DecisionNodeRepository().Create(ctx, n); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.graphs.Invalidate(module.Id)

	s.logger.Info("MODULE", "Decision graph imported", map[string]interface{}{
		"module_id": module.Id.String(),
		"nodes":     len(nodes),
		"options":   options,
	})

	return &dto.ImportGraphResponse{
		ModuleId:    module.Id,
		NodeCount:   len(nodes),
		OptionCount: options,
	}, nil
}

// Publish validates the whole graph and freezes the module. Publishing an
// already published module is a no-op.
func (s *moduleService) Publish(ctx context.Context, moduleId uuid.UUID) (*dto.PublishModuleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	module, err := loadModule(ctx, uow, moduleId)
	if err != nil {
		return nil, err
	}

	s.graphs.Invalidate(module.Id)
	g, err := s.graphs.Load(ctx, module.Id)
	if err != nil {
		return nil, err
	}

	if module.IsPublished() && module.PublishedAt != nil {
		return &dto.PublishModuleResponse{
			ModuleId:    module.Id,
			Status:      string(module.Status),
			NodeCount:   len(g.Graph.Nodes),
			PublishedAt: *module.PublishedAt,
		}, nil
	}

	if err := g.Graph.Validate(); err != nil {
		s.logger.Warn("MODULE", "Publish rejected", map[string]interface{}{
			"module_id": module.Id.String(),
			"error":     err.Error(),
		})
		return nil, apperr.BadRequest("Graph validation failed").Wrap(err)
	}

	now := time.Now()
	if err := uow.ModuleRepository().MarkPublished(ctx, module.Id, now); err != nil {
		return nil, err
	}
	s.graphs.Invalidate(module.Id)

	s.logger.Info("MODULE", "Module published", map[string]interface{}{
		"module_id": module.Id.String(),
		"nodes":     len(g.Graph.Nodes),
	})

	return &dto.PublishModuleResponse{
		ModuleId:    module.Id,
		Status:      string(entity.ModuleStatusPublished),
		NodeCount:   len(g.Graph.Nodes),
		PublishedAt: now,
	}, nil
}

func (s *moduleService) ExportDOT(ctx context.Context, moduleId uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadModule(ctx, uow, moduleId); err != nil {
		return "", err
	}

	g, err := s.graphs.Load(ctx, moduleId)
	if err != nil {
		return "", err
	}
	if len(g.Graph.Nodes) == 0 {
		return "", apperr.BadRequest("Module has no decision graph")
	}
	return graph.ExportDOT(g.Graph)
}

// GraphProblems extracts validation problems from a Publish error.
func GraphProblems(err error) ([]string, bool) {
	var verr *graph.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems, true
	}
	return nil, false
}
