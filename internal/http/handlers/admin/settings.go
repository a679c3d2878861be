package admin

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAffiliateSetting 推广业务配置
func (h *Handler) GetAffiliateSetting(c *gin.Context) {
	setting, err := h.SettingService.GetAffiliateSetting()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, setting)
}

// UpdateAffiliateSetting 保存推广业务配置
func (h *Handler) UpdateAffiliateSetting(c *gin.Context) {
	var req service.AffiliateSetting
	if !shared.BindJSON(c, &req) {
		return
	}
	before, err := h.SettingService.GetAffiliateSetting()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	saved, err := h.SettingService.UpdateAffiliateSetting(req)
	if err != nil {
		shared.RespondMappedError(c, err, settingErrorRules, response.CodeInternal, "error.settings_save_failed")
		return
	}
	if err := h.AuditService.Record(service.AuditRecordInput{
		Operator:   shared.OperatorFromContext(c),
		Action:     constants.AuditActionAffiliateSetting,
		TargetType: constants.AuditTargetSetting,
		Detail: models.JSON{
			"key":    constants.SettingKeyAffiliateConfig,
			"before": service.AffiliateSettingToMap(before),
			"after":  service.AffiliateSettingToMap(saved),
		},
	}); err != nil {
		shared.RequestLog(c).Warnw("admin_affiliate_setting_audit_failed", "error", err)
	}
	response.Success(c, saved)
}
