package kitchen

import "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
