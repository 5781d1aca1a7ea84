package payment

import "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
