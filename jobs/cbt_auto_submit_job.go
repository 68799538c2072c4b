package jobs

import (
	"context"
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/services"
	"go.uber.org/zap"
)

const defaultAutoSubmitGraceSeconds = 60

// AutoSubmitExpiredCbtAttempts closes attempts whose time ran out while the
// student was away, e.g. after a closed tab or a lost connection.
func AutoSubmitExpiredCbtAttempts() {
	grace := time.Duration(config.ConfigInt("CBT_AUTO_SUBMIT_GRACE_SECONDS", defaultAutoSubmitGraceSeconds)) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	submitted, err := services.AutoSubmitExpired(ctx, time.Now(), grace)
	if err != nil {
		logger.Log.Error("Error auto submitting expired cbt attempts", zap.Error(err))
		return
	}
	if submitted > 0 {
		logger.Log.Info("Auto submitted expired cbt attempts", zap.Int("count", submitted))
	}
}
