package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/gpucost/internal/agent"
	"github.com/agenthands/gpucost/internal/catalog"
	"github.com/agenthands/gpucost/internal/compare"
	"github.com/agenthands/gpucost/internal/config"
	"github.com/agenthands/gpucost/internal/knowledge"
	"github.com/agenthands/gpucost/internal/llm"
	"github.com/agenthands/gpucost/internal/trends"
)

type Server struct {
	Agent   *agent.Agent // nil when no LLM is configured
	Toolset *agent.Toolset
	logger  *slog.Logger
}

// NewToolset wires the four data components from configuration. This is the
// single construction point for the facade; everything downstream receives
// it explicitly.
func NewToolset(ctx context.Context, cfg *config.Config, embedder llm.EmbedderClient) (*agent.Toolset, error) {
	cat := catalog.NewStoreFromSeed(cfg.Data.PricingSeed, cfg.Data.ShuffleSeed)

	var store knowledge.Store
	if cfg.Knowledge.Backend == "memgraph" {
		mg, err := knowledge.NewMemgraphStore(ctx, cfg.Knowledge.MemgraphURI,
			cfg.Knowledge.MemgraphUser, cfg.Knowledge.MemgraphPassword, cfg.Knowledge.Collection)
		if err != nil {
			return nil, err
		}
		store = mg
	} else {
		store = knowledge.NewMemoryStore(cfg.Knowledge.Collection)
	}

	retriever := knowledge.NewRetriever(store, embedder)
	if err := retriever.Populate(ctx, cfg.Data.KnowledgeSeed); err != nil {
		return nil, err
	}

	return agent.NewToolset(cat, compare.NewDefault(), trends.NewDefault(), retriever), nil
}

func NewServer(cfg *config.Config) *Server {
	ctx := context.Background()

	var chat llm.ChatClient
	var embedder llm.EmbedderClient
	if cfg.LLM.APIKey != "" || cfg.LLM.Provider == "ollama" {
		var err error
		chat, embedder, err = llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
	} else {
		log.Println("No LLM API key configured; /ask disabled, tool endpoints remain available")
	}

	toolset, err := NewToolset(ctx, cfg, embedder)
	if err != nil {
		log.Fatalf("Failed to initialize tools: %v", err)
	}

	s := &Server{
		Toolset: toolset,
		logger:  slog.Default(),
	}
	if chat != nil {
		s.Agent = agent.New(chat, toolset, cfg.Agent.MaxTurns)
	}
	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/", s.Root)
	r.GET("/health", s.Health)
	r.GET("/tools", s.ListTools)
	r.POST("/tools/:name", s.CallTool)
	r.POST("/ask", s.Ask)

	return r
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "cloud GPU pricing agent",
		"endpoints": gin.H{
			"POST /ask":         "ask the agent a question",
			"GET /health":       "health check",
			"GET /tools":        "tool registry schema",
			"POST /tools/:name": "invoke one tool directly",
		},
		"examples": []string{
			"How much does a V100 GPU cost on AWS?",
			"Which is cheaper for a K80: AWS or Azure?",
			"How do I optimize GPU costs in the cloud?",
		},
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"agent_ready": s.Agent != nil,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": agent.Registry()})
}

// CallTool forwards an argument bag to the dispatcher. The transport never
// interprets tool semantics: typed failures come back as 200 with the
// failure kind in the body.
func (s *Server) CallTool(c *gin.Context) {
	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := s.Toolset.Dispatch(c.Request.Context(), agent.Call{
		Name:      c.Param("name"),
		Arguments: args,
	})
	s.logger.Info("tool call", "tool", result.Tool, "status", string(result.Status))
	c.JSON(http.StatusOK, result)
}

type AskRequest struct {
	Question string `json:"question"`
}

func (s *Server) Ask(c *gin.Context) {
	if s.Agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agent not initialized"})
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be empty"})
		return
	}

	s.logger.Info("question received", "question", req.Question)
	answer, err := s.Agent.AnalyzeQuery(c.Request.Context(), req.Question)
	if err != nil {
		s.logger.Error("failed to process question", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"question":  req.Question,
		"answer":    answer,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
