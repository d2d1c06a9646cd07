package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer stores grouping rules in casbin_rule through the gorm adapter.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcer(adapter)
}

func newEnforcer(adapter persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if adapter != nil {
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
	}
	if err != nil {
		return nil, err
	}

	if adapter != nil {
		enforcer.EnableAutoSave(true)
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID, orgID uuid.UUID, object, action string) error {
	if userID == uuid.Nil {
		return ErrInvalidActor
	}
	if orgID == uuid.Nil {
		return ErrInvalidOrganization
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", userID)
	domain := fmt.Sprintf("org:%s", orgID)

	roleName, err := s.roleForUser(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}
	if roleName == "" {
		s.denied(ctx, subject, domain, object, action)
		return ErrForbidden
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.denied(ctx, subject, domain, object, action)
		return ErrForbidden
	}
	return nil
}

// roleForUser returns "" when the user is neither the owner nor an active member.
func (s *ServiceImpl) roleForUser(ctx context.Context, orgID, userID uuid.UUID) (string, error) {
	var owners int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*)
		 FROM owners
		 WHERE organization_id = ? AND user_id = ?`,
		orgID,
		userID,
	).Scan(&owners).Error; err != nil {
		return "", err
	}
	if owners > 0 {
		return RoleOwner, nil
	}

	var members int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*)
		 FROM members
		 WHERE organization_id = ? AND user_id = ?
		   AND revoked_at IS NULL AND deactivated_at IS NULL`,
		orgID,
		userID,
	).Scan(&members).Error; err != nil {
		return "", err
	}
	if members > 0 {
		return RoleMember, nil
	}
	return "", nil
}

// ensureGrouping makes subject hold exactly roleName in domain; an empty
// roleName clears every grouping.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
				return err
			}
		}
	}
	if roleName == "" {
		return nil
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) denied(ctx context.Context, subject, domain, object, action string) {
	logger.WithContext(ctx, s.log).Info("authorization denied",
		zap.String("subject", subject),
		zap.String("domain", domain),
		zap.String("object", object),
		zap.String("action", action),
	)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	memberPolicies := [][]string{
		{ObjectOrganization, ActionOrganizationView},
		{ObjectProject, ActionProjectView},
		{ObjectProject, ActionProjectCreate},
		{ObjectProject, ActionProjectEdit},
		{ObjectInvite, ActionInviteView},
		{ObjectInvite, ActionInviteCreate},
		{ObjectMember, ActionMemberView},
		{ObjectCredential, ActionCredentialView},
		{ObjectWebhook, ActionWebhookView},
	}
	ownerPolicies := [][]string{
		{ObjectOrganization, ActionOrganizationEdit},
		{ObjectProject, ActionProjectDeactivate},
		{ObjectInvite, ActionInviteRevoke},
		{ObjectMember, ActionMemberDeactivate},
		{ObjectMember, ActionMemberReactivate},
		{ObjectCredential, ActionCredentialCreate},
		{ObjectCredential, ActionCredentialDelete},
		{ObjectWebhook, ActionWebhookCreate},
		{ObjectWebhook, ActionWebhookDelete},
	}

	policies := make([][]string, 0, 2*len(memberPolicies)+len(ownerPolicies))
	for _, p := range memberPolicies {
		policies = append(policies, []string{RoleMember, p[0], p[1]}, []string{RoleOwner, p[0], p[1]})
	}
	for _, p := range ownerPolicies {
		policies = append(policies, []string{RoleOwner, p[0], p[1]})
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
