package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/authz"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/cache"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	adminhandlers "github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/admin"
	publichandlers "github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/public"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "aff"
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:login", redisPrefix), cfg.Security.LoginRateLimit)
	adminLoginRule := NewRateLimitRule(fmt.Sprintf("%s:admin_login", redisPrefix), cfg.Security.LoginRateLimit)
	trackRule := NewRateLimitRule(fmt.Sprintf("%s:affiliate_track", redisPrefix), cfg.Security.ReferralRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}
	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService, c.UserRepo)
	adminAuth := JWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService, c.AdminRepo)
	adminGuards := []gin.HandlerFunc{adminAuth}
	if cfg.Affiliate.AdminRBACEnabled {
		adminGuards = append(adminGuards, AdminRBACMiddleware(c.AuthzService))
	}

	apiV1 := r.Group("/api/v1")
	{
		// 用户认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			authed := auth.Group("", userAuth)
			authed.GET("/me", publicHandler.GetCurrentUser)
			authed.PUT("/password", publicHandler.ChangeUserPassword)
		}

		affiliate := apiV1.Group("/affiliate")
		{
			// 公开：推广链接访问与计费回调
			affiliate.GET("/track", RateLimitMiddleware(redisClient, trackRule, KeyByIPAndQuery("code")), publicHandler.TrackAffiliateClick)
			affiliate.POST("/webhooks/stripe", publicHandler.HandleStripeBillingWebhook)

			// 推广者自助
			self := affiliate.Group("", userAuth)
			{
				self.GET("/validate", publicHandler.ValidateAffiliateCode)
				self.POST("/join", publicHandler.JoinAffiliate)
				self.GET("/me", publicHandler.GetAffiliateDashboard)
				self.GET("/referrals", publicHandler.ListMyReferrals)
				self.POST("/referral/attribute", publicHandler.AttributeReferral)
				self.GET("/payouts", publicHandler.ListMyPayouts)
				self.POST("/payouts", publicHandler.RequestPayout)
			}

			// 资金操作：管理员会话 + RBAC
			finance := affiliate.Group("", adminGuards...)
			{
				finance.POST("/commission/refund", adminHandler.ProcessCommissionRefund)
				finance.POST("/commission/convert", adminHandler.ConvertCommission)
				finance.POST("/payout/admin/process", adminHandler.ProcessPayout)
				finance.POST("/payout/admin/reject", adminHandler.RejectPayout)
				finance.GET("/payout/admin/pending", adminHandler.ListPendingPayouts)
			}
		}

		apiV1.POST("/admin/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

		// 管理员个人信息不走 RBAC
		adminSelf := apiV1.Group("/admin", adminAuth)
		{
			adminSelf.GET("/me", adminHandler.GetAdminMe)
			adminSelf.PUT("/me/password", adminHandler.ChangeAdminPassword)
		}

		admin := apiV1.Group("/admin", adminGuards...)
		{
			admin.GET("/affiliates", adminHandler.ListAffiliates)
			admin.PATCH("/affiliates/:id/status", adminHandler.UpdateAffiliateStatus)
			admin.PATCH("/affiliates/:id/commission", adminHandler.UpdateAffiliateCommission)
			admin.GET("/referrals", adminHandler.ListReferrals)
			admin.GET("/payouts", adminHandler.ListPayouts)
			admin.POST("/payouts/:id/approve", adminHandler.ApprovePayout)
			admin.GET("/settings/affiliate", adminHandler.GetAffiliateSetting)
			admin.PUT("/settings/affiliate", adminHandler.UpdateAffiliateSetting)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r.Routes()))
			})
			admin.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
			admin.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
		}
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// isAdminProtectedPath 受 RBAC 保护的路由
func isAdminProtectedPath(path string) bool {
	switch {
	case path == "/api/v1/admin/login", strings.HasPrefix(path, "/api/v1/admin/me"):
		return false
	case strings.HasPrefix(path, "/api/v1/admin/"),
		strings.HasPrefix(path, "/api/v1/affiliate/commission/"),
		strings.HasPrefix(path, "/api/v1/affiliate/payout/admin/"):
		return true
	}
	return false
}

// buildAdminPermissionCatalog 由已注册路由生成可授权资源清单
func buildAdminPermissionCatalog(routes gin.RoutesInfo) []adminPermissionCatalogItem {
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !isAdminProtectedPath(item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// deriveAdminPermissionModule /admin/payouts -> payouts，/affiliate/payout/admin/x -> payout
func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	return segments[1]
}
