package booking

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
