package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/memory"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/internal/service"
	"simvado-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// seedFile describes one simulation module plus the accounts needed to play it.
type seedFile struct {
	Simulation struct {
		Title string `yaml:"title"`
		Slug  string `yaml:"slug"`
	} `yaml:"simulation"`
	Module struct {
		Title            string  `yaml:"title"`
		Slug             string  `yaml:"slug"`
		NarrativeContext string  `yaml:"narrativeContext"`
		IsFreeDemo       bool    `yaml:"isFreeDemo"`
		Platform         string  `yaml:"platform"`
		LaunchUrl        *string `yaml:"launchUrl"`
	} `yaml:"module"`
	Graph yaml.Node  `yaml:"graph"`
	Users []seedUser `yaml:"users"`
	// Assignments reference users by email.
	Assignments []struct {
		Assignee    string  `yaml:"assignee"`
		Assigner    string  `yaml:"assigner"`
		NotifyEmail *string `yaml:"notifyEmail"`
	} `yaml:"assignments"`
}

type seedUser struct {
	ExternalId     string `yaml:"externalId"`
	Email          string `yaml:"email"`
	Name           string `yaml:"name"`
	Role           string `yaml:"role"`
	Tier           string `yaml:"tier"`
	OrganizationId string `yaml:"organizationId"`
}

func main() {
	file := flag.String("file", "seeds/crisis_response.yaml", "seed document")
	issueKey := flag.String("issue-key", "", "issue a game-engine API key with this name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		color.Red("Failed to read %s: %v", *file, err)
		os.Exit(1)
	}
	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		color.Red("Failed to parse %s: %v", *file, err)
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	nop := logger.NewNopLogger()
	graphs := service.NewGraphStore(uowFactory, memory.NewGraphCache(time.Minute))
	modules := service.NewModuleService(uowFactory, graphs, nop)
	apiKeys := service.NewApiKeyService(uowFactory, nop)

	color.Cyan("🚀 Seeding %s / %s\n", doc.Simulation.Title, doc.Module.Title)

	module, err := ensureModule(ctx, uowFactory, &doc)
	if err != nil {
		color.Red("Failed to create module: %v", err)
		os.Exit(1)
	}
	color.Green("Module %s (%s)", module.Slug, module.Id)

	if module.IsPublished() {
		color.Yellow("Module already published, graph left untouched")
	} else {
		graphDoc, err := yaml.Marshal(&doc.Graph)
		if err != nil {
			color.Red("Failed to encode graph: %v", err)
			os.Exit(1)
		}
		imported, err := modules.ImportGraph(ctx, module.Id, graphDoc)
		if err != nil {
			color.Red("Graph import failed: %v", err)
			os.Exit(1)
		}
		color.Green("Imported %d nodes, %d options", imported.NodeCount, imported.OptionCount)

		published, err := modules.Publish(ctx, module.Id)
		if err != nil {
			color.Red("Publish failed: %v", err)
			if problems, ok := service.GraphProblems(err); ok {
				for _, p := range problems {
					color.Red("  - %s", p)
				}
			}
			os.Exit(1)
		}
		color.Green("Published at %s", published.PublishedAt.Format(time.RFC3339))
	}

	users, err := ensureUsers(ctx, uowFactory, doc.Users)
	if err != nil {
		color.Red("Failed to seed users: %v", err)
		os.Exit(1)
	}
	color.Green("Users ready: %d", len(users))

	if err := seedAssignments(ctx, uowFactory, &doc, module, users); err != nil {
		color.Red("Failed to seed assignments: %v", err)
		os.Exit(1)
	}

	if *issueKey != "" {
		res, err := apiKeys.IssueKey(ctx, &dto.IssueApiKeyRequest{Name: *issueKey})
		if err != nil {
			color.Red("Failed to issue API key: %v", err)
			os.Exit(1)
		}
		color.Yellow("\nAPI key %q (shown once):", *issueKey)
		fmt.Println(res.Key)
	}

	color.Cyan("\n✅ Seed completed")
}

func ensureModule(ctx context.Context, f unitofwork.RepositoryFactory, doc *seedFile) (*entity.Module, error) {
	uow := f.NewUnitOfWork(ctx)

	sim, err := uow.SimulationRepository().FindOne(ctx, specification.BySlug{Slug: doc.Simulation.Slug})
	if err != nil {
		return nil, err
	}
	if sim == nil {
		sim = &entity.Simulation{
			Id:    uuid.New(),
			Title: doc.Simulation.Title,
			Slug:  doc.Simulation.Slug,
		}
		if err := uow.SimulationRepository().Create(ctx, sim); err != nil {
			return nil, err
		}
	}

	module, err := uow.ModuleRepository().FindOne(ctx,
		specification.BySlug{Slug: doc.Module.Slug},
		specification.FilterBy{Field: "simulation_id", Value: sim.Id},
	)
	if err != nil || module != nil {
		return module, err
	}

	platform := entity.Platform(doc.Module.Platform)
	if platform == "" {
		platform = entity.PlatformBrowser
	}
	module = &entity.Module{
		Id:               uuid.New(),
		SimulationId:     sim.Id,
		Title:            doc.Module.Title,
		Slug:             doc.Module.Slug,
		NarrativeContext: doc.Module.NarrativeContext,
		Status:           entity.ModuleStatusDraft,
		IsFreeDemo:       doc.Module.IsFreeDemo,
		Platform:         platform,
		LaunchUrl:        doc.Module.LaunchUrl,
	}
	if err := uow.ModuleRepository().Create(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func ensureUsers(ctx context.Context, f unitofwork.RepositoryFactory, seeds []seedUser) (map[string]*entity.User, error) {
	uow := f.NewUnitOfWork(ctx)
	out := make(map[string]*entity.User, len(seeds))

	for _, s := range seeds {
		u, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: s.Email})
		if err != nil {
			return nil, err
		}
		if u == nil {
			u = &entity.User{
				Id:               uuid.New(),
				ExternalId:       s.ExternalId,
				Email:            s.Email,
				Name:             s.Name,
				Role:             entity.UserRole(s.Role),
				SubscriptionTier: entity.SubscriptionTier(s.Tier),
			}
			if s.OrganizationId != "" {
				orgId, err := uuid.Parse(s.OrganizationId)
				if err != nil {
					return nil, fmt.Errorf("user %s: invalid organizationId: %w", s.Email, err)
				}
				u.OrganizationId = &orgId
			}
			if u.Role == "" {
				u.Role = entity.UserRoleUser
			}
			if u.SubscriptionTier == "" {
				u.SubscriptionTier = entity.SubscriptionTierFree
			}
			if err := uow.UserRepository().Create(ctx, u); err != nil {
				return nil, err
			}
			color.Green("  + %s <%s> %s/%s", u.Name, u.Email, u.Role, u.SubscriptionTier)
		}
		out[s.Email] = u
	}
	return out, nil
}

func seedAssignments(ctx context.Context, f unitofwork.RepositoryFactory, doc *seedFile, module *entity.Module, users map[string]*entity.User) error {
	uow := f.NewUnitOfWork(ctx)

	for _, a := range doc.Assignments {
		assignee, ok := users[a.Assignee]
		if !ok {
			return fmt.Errorf("unknown assignee %q", a.Assignee)
		}
		if assignee.OrganizationId == nil {
			color.Yellow("  ! %s has no organization, skipping assignment", assignee.Email)
			continue
		}

		existing, err := uow.AssignmentRepository().FindAll(ctx,
			specification.FilterBy{Field: "assigned_to_user_id", Value: assignee.Id},
			specification.ByModuleID{ModuleID: module.Id},
		)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		assignment := &entity.Assignment{
			Id:               uuid.New(),
			OrganizationId:   *assignee.OrganizationId,
			ModuleId:         module.Id,
			AssignedToUserId: assignee.Id,
			NotifyEmail:      a.NotifyEmail,
			Status:           entity.AssignmentStatusAssigned,
		}
		if assigner, ok := users[a.Assigner]; ok {
			assignment.AssignedByUserId = &assigner.Id
		}
		if err := uow.AssignmentRepository().Create(ctx, assignment); err != nil {
			return err
		}
		color.Green("  + assignment for %s", assignee.Email)
	}
	return nil
}
