package shopify

// ordersQuery pages through order summaries matching a search filter.
const ordersQuery = `
query Orders($first: Int!, $after: String, $query: String) {
  orders(first: $first, after: $after, query: $query, sortKey: ID) {
    nodes {
      id
      name
      displayFulfillmentStatus
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// orderDetailsQuery fetches the full nested document for one order.
const orderDetailsQuery = `
query OrderDetails($id: ID!) {
  order(id: $id) {
    id
    name
    createdAt
    updatedAt
    note
    closed
    shippingAddress {
      country
      countryCodeV2
    }
    shippingLine {
      title
      discountedPriceSet {
        shopMoney { amount currencyCode }
      }
      taxLines {
        rate
        title
        priceSet {
          shopMoney { amount currencyCode }
          presentmentMoney { amount currencyCode }
        }
      }
    }
    discountApplications(first: 10) {
      nodes {
        ... on DiscountCodeApplication { code }
      }
    }
    fulfillmentOrders(first: 20) {
      nodes {
        assignedLocation { name }
        lineItems(first: 100) {
          nodes {
            totalQuantity
            lineItem {
              id
              sku
              name
              title
              quantity
              vendor
              requiresShipping
              originalTotalSet {
                shopMoney { amount currencyCode }
              }
              discountedTotalSet {
                shopMoney { amount currencyCode }
              }
              discountAllocations {
                allocatedAmountSet {
                  shopMoney { amount currencyCode }
                }
              }
              taxLines {
                rate
                title
                priceSet {
                  shopMoney { amount currencyCode }
                  presentmentMoney { amount currencyCode }
                }
              }
              duties {
                price { shopMoney { amount currencyCode } }
                taxLines {
                  priceSet { shopMoney { amount currencyCode } }
                }
              }
              variant {
                sku
                barcode
                image { url }
                product {
                  vendor
                  productType
                  tags
                  metafield(namespace: "custom", key: "my_sku") { value }
                }
              }
            }
          }
        }
      }
    }
    lineItems(first: 100) {
      nodes {
        id
        sku
        name
        title
        quantity
        fulfillableQuantity
        vendor
        requiresShipping
        originalUnitPriceSet {
          shopMoney { amount currencyCode }
          presentmentMoney { amount currencyCode }
        }
        taxLines {
          rate
          title
          priceSet {
            shopMoney { amount currencyCode }
            presentmentMoney { amount currencyCode }
          }
        }
        variant {
          sku
          barcode
          image { url }
          product {
            vendor
            productType
            tags
            metafield(namespace: "custom", key: "my_sku") { value }
          }
        }
      }
    }
  }
}`
