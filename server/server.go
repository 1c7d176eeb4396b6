// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs"
	"github.com/bluekeyes/hatpear"
	"github.com/c2h5oh/datasize"
	"github.com/palantir/go-baseapp/baseapp"
	"github.com/palantir/go-baseapp/baseapp/datadog"
	"github.com/pkg/errors"
	"goji.io"
	"goji.io/pat"

	"github.com/galleyio/galley/metrics"
	"github.com/galleyio/galley/server/handler"
	"github.com/galleyio/galley/server/middleware"
	"github.com/galleyio/galley/store"
)

const (
	DefaultSessionLifetime = 24 * time.Hour
	DefaultStorePath       = "galley.db"
	DefaultMaxUploadSize   = 1 * datasize.MB

	DefaultCachePages = 128
	DefaultCacheTTL   = 5 * time.Minute
)

type Server struct {
	config *Config
	base   *baseapp.Server
	posts  *store.PostStore
}

// New instantiates a new Server.
// Callers must then invoke Start to run the Server.
func New(c *Config) (*Server, error) {
	logger := baseapp.NewLogger(baseapp.LoggingConfig{
		Level:  c.Logging.Level,
		Pretty: c.Logging.Text,
	})

	lifetime, _ := time.ParseDuration(c.Sessions.Lifetime)
	if lifetime == 0 {
		lifetime = DefaultSessionLifetime
	}

	publicURL, err := url.Parse(c.Server.PublicURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse public URL")
	}
	if publicURL.Scheme == "" || publicURL.Host == "" {
		return nil, errors.Errorf("public URL must contain a scheme and a host: %s", c.Server.PublicURL)
	}

	basePath := strings.TrimSuffix(publicURL.Path, "/")
	forceTLS := publicURL.Scheme == "https"

	sessions := scs.NewCookieManager(c.Sessions.Key)
	sessions.Name("galley")
	sessions.Lifetime(lifetime)
	sessions.Persist(true)
	sessions.HttpOnly(true)
	sessions.Secure(forceTLS)

	base, err := baseapp.NewServer(c.Server, baseapp.DefaultParams(logger, "galley.")...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize base server")
	}
	metrics.SetRegistry(base.Registry())

	storePath := c.Store.Path
	if storePath == "" {
		storePath = DefaultStorePath
	}

	posts, err := store.Open(context.Background(), storePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open post store")
	}
	if err := posts.Seed(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to seed post store")
	}

	c.Site.FillDefaults()

	engine, err := handler.LoadSiteTemplates(&c.Files, &c.Site, basePath, c.Templates.Reload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load site templates")
	}
	if err := engine.ValidateAll(); err != nil {
		return nil, errors.Wrap(err, "failed to validate site templates")
	}

	adminTemplates, err := handler.LoadAdminTemplates(basePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load admin templates")
	}
	feedTemplates, err := handler.LoadFeedTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load feed templates")
	}

	metrics.TemplateCount(func() int64 {
		names, err := engine.Names()
		if err != nil {
			return 0
		}
		return int64(len(names))
	})

	// Pages == 0 means the default size; negative disables the cache.
	var pageCache *middleware.PageCache
	if c.Cache.Pages >= 0 {
		cachePages := c.Cache.Pages
		if cachePages == 0 {
			cachePages = DefaultCachePages
		}
		cacheTTL := c.Cache.TTL
		if cacheTTL == 0 {
			cacheTTL = DefaultCacheTTL
		}
		pageCache, err = middleware.NewPageCache(cachePages, cacheTTL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize page cache")
		}
	}
	cached := func(h http.Handler) http.Handler {
		if pageCache == nil {
			return h
		}
		return pageCache.Middleware(h)
	}

	maxUpload := int64(c.Templates.MaxUploadSize)
	if maxUpload == 0 {
		maxUpload = int64(DefaultMaxUploadSize)
	}

	baseHandler := handler.Base{
		Engine:   engine,
		Posts:    posts,
		Site:     &c.Site,
		BasePath: basePath,
	}

	requireSession := handler.RequireAPISession(sessions)
	requireLogin := handler.RequireLogin(sessions, basePath)

	var mux *goji.Mux
	if basePath == "" {
		mux = base.Mux()
	} else {
		mux = goji.SubMux()
		base.Mux().Handle(pat.New(basePath+"/*"), mux)
	}

	// API routes
	mux.Handle(pat.Get("/api/health"), handler.Health())
	mux.Handle(pat.Get("/api/v1/posts"), hatpear.Try(&handler.ListPosts{Base: baseHandler}))
	mux.Handle(pat.Get("/api/v1/posts/:id"), hatpear.Try(&handler.GetPost{Base: baseHandler}))
	mux.Handle(pat.Post("/api/v1/posts"), requireSession(hatpear.Try(&handler.CreatePost{Base: baseHandler})))
	mux.Handle(pat.Delete("/api/v1/posts/:id"), requireSession(hatpear.Try(&handler.DeletePost{Base: baseHandler})))

	// template management routes; refresh registers before the wildcard so
	// it is not mistaken for a template named "refresh"
	mux.Handle(pat.Put("/api/validate"), hatpear.Try(&handler.Validate{Engine: engine, MaxBodySize: maxUpload}))
	mux.Handle(pat.Post("/api/preview"), requireSession(hatpear.Try(&handler.Preview{Engine: engine, MaxBodySize: maxUpload})))
	mux.Handle(pat.Get("/api/templates"), requireSession(hatpear.Try(&handler.TemplateList{Engine: engine})))
	mux.Handle(pat.Post("/api/templates/refresh"), requireSession(hatpear.Try(&handler.TemplateRefresh{Engine: engine, Cache: pageCache})))
	mux.Handle(pat.New("/api/templates/*"), requireSession(hatpear.Try(&handler.TemplateFile{
		Engine:        engine,
		Cache:         pageCache,
		MaxUploadSize: maxUpload,
	})))

	// session routes
	login := &handler.Login{
		Sessions:  sessions,
		Templates: adminTemplates,
		Password:  c.Admin.Password,
		BasePath:  basePath,
	}
	mux.Handle(pat.Get("/login"), hatpear.Try(login))
	mux.Handle(pat.Post("/login"), hatpear.Try(login))
	mux.Handle(pat.Post("/logout"), hatpear.Try(&handler.Logout{Sessions: sessions, BasePath: basePath}))

	// admin routes
	mux.Handle(pat.Get("/admin"), requireLogin(hatpear.Try(&handler.Dashboard{
		Base:      baseHandler,
		Templates: adminTemplates,
	})))
	mux.Handle(pat.Get("/admin/preview"), requireLogin(hatpear.Try(&handler.AdminPreview{Base: baseHandler})))

	// site routes
	mux.Handle(pat.Get("/favicon.ico"), http.RedirectHandler(handler.StaticURL(basePath, "img/favicon.svg"), http.StatusFound))
	mux.Handle(pat.Get("/static/*"), handler.Static(basePath+"/static/", &c.Files))
	mux.Handle(pat.Get("/feed.xml"), cached(hatpear.Try(&handler.Feed{
		Base:      baseHandler,
		Templates: feedTemplates,
		PublicURL: publicURL.String(),
	})))

	about := hatpear.Try(&handler.About{Base: baseHandler})
	mux.Handle(pat.Get("/about"), cached(about))
	mux.Handle(pat.Get("/page"), cached(about))

	mux.Handle(pat.Get("/posts/:id"), cached(hatpear.Try(&handler.Post{Base: baseHandler})))
	mux.Handle(pat.Get("/"), cached(hatpear.Try(&handler.Home{Base: baseHandler})))

	return &Server{
		config: c,
		base:   base,
		posts:  posts,
	}, nil
}

// Start is blocking and long-running
func (s *Server) Start() error {
	if s.config.Datadog.Address != "" {
		if err := datadog.StartEmitter(s.base, s.config.Datadog); err != nil {
			return err
		}
	}
	return s.base.Start()
}
