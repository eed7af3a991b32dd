package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/blob"
	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"

	_ "github.com/aussiebroadwan/sigil/api/signing" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Scopes understood by this service. The platform's auth service mints them.
const (
	ScopeSignaturesWrite = "signatures:write"
	ScopeDocumentsRead   = "documents:read"
	ScopeDocumentsWrite  = "documents:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	blobs blob.Store

	ChallengeService *service.ChallengeService
	SignatureService *service.SignatureService
	SealService      *service.SealService
	IntegrityService *service.IntegrityService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	blobs blob.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		blobs:        blobs,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSignatures()
	r.registerDocuments()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Signature Sealing Service API
//	@version		0.1.0
//	@description	One-time-code digital signature pipeline: issue a signing challenge,
//	@description	verify the delivered code, and seal the signed content into a durable
//	@description	document whose integrity can be re-verified at any time.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/sigil
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSignatures() {
	challengeHandler := &ChallengeHandler{ChallengeService: r.ChallengeService}
	verifyHandler := &VerifyHandler{
		SignatureService: r.SignatureService,
		SealService:      r.SealService,
	}

	// Both endpoints gate brute force: strict limits keyed by subject so one
	// noisy client cannot starve others behind the same NAT.
	r.Mux.Handle("POST /v1/signatures/challenge",
		httpx.Chain(http.HandlerFunc(challengeHandler.HandleStart),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeSignaturesWrite),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/signatures/verify",
		httpx.Chain(http.HandlerFunc(verifyHandler.HandleVerify),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeSignaturesWrite),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerDocuments() {
	documentHandler := &DocumentHandler{IntegrityService: r.IntegrityService}

	r.Mux.Handle("GET /v1/documents/{id}",
		httpx.Chain(http.HandlerFunc(documentHandler.HandleArtifact),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeDocumentsRead),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/documents/{id}/integrity",
		httpx.Chain(http.HandlerFunc(documentHandler.HandleIntegrity),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeDocumentsRead),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/documents/{id}/revoke",
		httpx.Chain(http.HandlerFunc(documentHandler.HandleRevoke),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeDocumentsWrite),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.blobs),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
